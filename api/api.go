package api

import (
	"github.com/gin-gonic/gin"

	"taxifleet/pkg/auth"
	"taxifleet/pkg/logger"
	"taxifleet/service"
)

type Options struct {
	Tokens *auth.TokenManager
	// CookieName names the session cookie.
	CookieName string
	// Renderer defaults to the embedded HTML templates.
	Renderer Renderer
}

type Handler struct {
	svc      service.IServiceManager
	log      logger.ILogger
	tokens   *auth.TokenManager
	cookie   string
	renderer Renderer
}

// New builds the router with every named route registered.
func New(svc service.IServiceManager, log logger.ILogger, opts Options) (*gin.Engine, error) {
	if opts.Renderer == nil {
		r, err := NewHTMLRenderer()
		if err != nil {
			return nil, err
		}
		opts.Renderer = r
	}
	if opts.CookieName == "" {
		opts.CookieName = "sessionid"
	}

	h := &Handler{
		svc:      svc,
		log:      log,
		tokens:   opts.Tokens,
		cookie:   opts.CookieName,
		renderer: opts.Renderer,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	r.GET(Path(RouteLogin), h.LoginPage)
	r.POST(Path(RouteLogin), h.Login)

	authed := r.Group("/")
	authed.Use(h.authRequired)
	{
		authed.GET(Path(RouteIndex), h.Index)
		authed.POST(Path(RouteLogout), h.Logout)

		authed.GET(Path(RouteManufacturerList), h.ManufacturerList)
		authed.GET(Path(RouteManufacturerCreate), h.ManufacturerCreatePage)
		authed.POST(Path(RouteManufacturerCreate), h.ManufacturerCreate)
		authed.GET(Path(RouteManufacturerUpdate), h.ManufacturerUpdatePage)
		authed.POST(Path(RouteManufacturerUpdate), h.ManufacturerUpdate)
		authed.GET(Path(RouteManufacturerDelete), h.ManufacturerDeletePage)
		authed.POST(Path(RouteManufacturerDelete), h.ManufacturerDelete)

		authed.GET(Path(RouteCarList), h.CarList)
		authed.GET(Path(RouteCarDetail), h.CarDetail)
		authed.GET(Path(RouteCarCreate), h.CarCreatePage)
		authed.POST(Path(RouteCarCreate), h.CarCreate)
		authed.GET(Path(RouteCarUpdate), h.CarUpdatePage)
		authed.POST(Path(RouteCarUpdate), h.CarUpdate)
		authed.GET(Path(RouteCarDelete), h.CarDeletePage)
		authed.POST(Path(RouteCarDelete), h.CarDelete)
		authed.POST(Path(RouteToggleCarAssign), h.ToggleCarAssign)

		authed.GET(Path(RouteDriverList), h.DriverList)
		authed.GET(Path(RouteDriverDetail), h.DriverDetail)
		authed.GET(Path(RouteDriverCreate), h.DriverCreatePage)
		authed.POST(Path(RouteDriverCreate), h.DriverCreate)
		authed.GET(Path(RouteDriverUpdate), h.DriverUpdatePage)
		authed.POST(Path(RouteDriverUpdate), h.DriverUpdate)
		authed.GET(Path(RouteDriverDelete), h.DriverDeletePage)
		authed.POST(Path(RouteDriverDelete), h.DriverDelete)
	}

	r.NoRoute(h.notFound)

	return r, nil
}
