package api

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	RouteIndex  = "index"
	RouteLogin  = "login"
	RouteLogout = "logout"

	RouteManufacturerList   = "manufacturer-list"
	RouteManufacturerCreate = "manufacturer-create"
	RouteManufacturerUpdate = "manufacturer-update"
	RouteManufacturerDelete = "manufacturer-delete"

	RouteCarList         = "car-list"
	RouteCarDetail       = "car-detail"
	RouteCarCreate       = "car-create"
	RouteCarUpdate       = "car-update"
	RouteCarDelete       = "car-delete"
	RouteToggleCarAssign = "toggle-car-assign"

	RouteDriverList   = "driver-list"
	RouteDriverDetail = "driver-detail"
	RouteDriverCreate = "driver-create"
	RouteDriverUpdate = "driver-update"
	RouteDriverDelete = "driver-delete"
)

var routePaths = map[string]string{
	RouteIndex:  "/",
	RouteLogin:  "/accounts/login/",
	RouteLogout: "/accounts/logout/",

	RouteManufacturerList:   "/manufacturers/",
	RouteManufacturerCreate: "/manufacturers/create/",
	RouteManufacturerUpdate: "/manufacturers/:id/update/",
	RouteManufacturerDelete: "/manufacturers/:id/delete/",

	RouteCarList:         "/cars/",
	RouteCarDetail:       "/cars/:id/",
	RouteCarCreate:       "/cars/create/",
	RouteCarUpdate:       "/cars/:id/update/",
	RouteCarDelete:       "/cars/:id/delete/",
	RouteToggleCarAssign: "/cars/:id/toggle-assign/",

	RouteDriverList:   "/drivers/",
	RouteDriverDetail: "/drivers/:id/",
	RouteDriverCreate: "/drivers/create/",
	RouteDriverUpdate: "/drivers/:id/update/",
	RouteDriverDelete: "/drivers/:id/delete/",
}

// Path returns the gin pattern registered for a route name.
func Path(name string) string {
	p, ok := routePaths[name]
	if !ok {
		panic(fmt.Sprintf("api: unknown route %q", name))
	}
	return p
}

// URL reverses a route name into a path, filling its parameters in order.
// It panics on an unknown name or a wrong number of arguments.
func URL(name string, args ...any) string {
	parts := strings.Split(Path(name), "/")
	i := 0
	for j, part := range parts {
		if !strings.HasPrefix(part, ":") {
			continue
		}
		if i >= len(args) {
			panic(fmt.Sprintf("api: route %q expects more arguments", name))
		}
		parts[j] = url.PathEscape(fmt.Sprint(args[i]))
		i++
	}
	if i != len(args) {
		panic(fmt.Sprintf("api: route %q takes %d arguments, got %d", name, i, len(args)))
	}
	return strings.Join(parts, "/")
}
