package api

import (
	"taxifleet/pkg/models"
	"taxifleet/service"
)

// Page names understood by a Renderer.
const (
	PageIndex            = "index"
	PageLogin            = "login"
	PageError            = "error"
	PageConfirmDelete    = "confirm_delete"
	PageManufacturerList = "manufacturer_list"
	PageManufacturerForm = "manufacturer_form"
	PageCarList          = "car_list"
	PageCarDetail        = "car_detail"
	PageCarForm          = "car_form"
	PageDriverList       = "driver_list"
	PageDriverDetail     = "driver_detail"
	PageDriverForm       = "driver_form"
	PageLicenseForm      = "license_form"
)

// Base is embedded by every view.
type Base struct {
	Title string
	User  *models.Driver
}

type FieldErrors map[string][]string

type IndexView struct {
	Base
	Counts service.Counts
	Visits int
}

type LoginView struct {
	Base
	Form  models.LoginForm
	Error string
}

type ErrorView struct {
	Base
	Status  int
	Message string
}

type ConfirmDeleteView struct {
	Base
	Kind   string
	Label  string
	Action string
	Cancel string
}

// ListView is a paginated, searchable list. Param names the query
// parameter the search form submits.
type ListView[T any] struct {
	Base
	Page   models.Page[T]
	Param  string
	Query  string
	Action string
}

type ManufacturerFormView struct {
	Base
	Form   models.ManufacturerForm
	Errors FieldErrors
	Object *models.Manufacturer
}

type CarFormView struct {
	Base
	Form          models.CarForm
	Errors        FieldErrors
	Object        *models.Car
	Manufacturers []*models.Manufacturer
	Drivers       []*models.Driver
	Selected      map[string]bool
}

type CarDetailView struct {
	Base
	Car      *models.Car
	Assigned bool
}

type DriverDetailView struct {
	Base
	Driver *models.Driver
}

type DriverFormView struct {
	Base
	Form   models.DriverForm
	Errors FieldErrors
}

type LicenseFormView struct {
	Base
	Form   models.LicenseForm
	Errors FieldErrors
	Object *models.Driver
}
