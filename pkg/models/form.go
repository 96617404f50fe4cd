package models

// Form structs carry raw request input. `form` tags drive gin binding and
// name the fields in validation errors; `validate` tags hold the rules.

type ManufacturerForm struct {
	Name    string `form:"name" validate:"required,max=255"`
	Country string `form:"country" validate:"required,max=255"`
}

type CarForm struct {
	Model        string   `form:"model" validate:"required,max=255"`
	Manufacturer string   `form:"manufacturer" validate:"required"`
	Drivers      []string `form:"drivers"`
}

type DriverForm struct {
	Username      string `form:"username" validate:"required,max=150,username"`
	FirstName     string `form:"first_name" validate:"max=150"`
	LastName      string `form:"last_name" validate:"max=150"`
	Email         string `form:"email" validate:"omitempty,max=254,email"`
	LicenseNumber string `form:"license_number" validate:"required,license"`
	Password1     string `form:"password1" validate:"required,min=8,password"`
	Password2     string `form:"password2" validate:"required,eqfield=Password1"`
}

type LicenseForm struct {
	LicenseNumber string `form:"license_number" validate:"required,license"`
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}
