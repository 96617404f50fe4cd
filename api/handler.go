package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/auth"
	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/service"
	"taxifleet/storage"
)

var errBadID = errors.New("bad id")

func (h *Handler) render(c *gin.Context, status int, page string, view any) {
	h.renderer.Render(c, status, page, view)
}

// base fills the fields shared by every view.
func (h *Handler) base(c *gin.Context, title string) Base {
	return Base{Title: title, User: auth.DriverFrom(c.Request.Context())}
}

func (h *Handler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, PageError, ErrorView{
		Base:    h.base(c, "Not Found"),
		Status:  http.StatusNotFound,
		Message: "The requested resource was not found on this server.",
	})
}

// fail maps an error to its response. Validation errors are handled by
// the caller since they re-render the form.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, models.ErrInvalidPage),
		errors.Is(err, errBadID):
		h.notFound(c)
	default:
		requestLog(c, h.log).Error("request failed",
			logger.String("path", c.Request.URL.Path),
			logger.Error(err),
		)
		h.render(c, http.StatusInternalServerError, PageError, ErrorView{
			Base:    h.base(c, "Server Error"),
			Status:  http.StatusInternalServerError,
			Message: "Something went wrong.",
		})
	}
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	requestLog(c, h.log).Warning("bad request", logger.String("path", c.Request.URL.Path), logger.Error(err))
	h.render(c, http.StatusBadRequest, PageError, ErrorView{
		Base:    h.base(c, "Bad Request"),
		Status:  http.StatusBadRequest,
		Message: "The request could not be understood.",
	})
}

// validationErrors returns the field messages when err is a validation
// failure.
func validationErrors(err error) (FieldErrors, bool) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return FieldErrors(verr.Fields), true
	}
	return nil, false
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// pageParam reads ?page=, defaulting to 1. Garbage is an invalid page.
func pageParam(c *gin.Context) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.ErrInvalidPage
	}
	return n, nil
}
