package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/models"
	"taxifleet/pkg/search"
)

func (h *Handler) ManufacturerList(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	query := c.Query(search.ManufacturerParam)

	p, err := h.svc.Manufacturer().List(c.Request.Context(), query, page)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageManufacturerList, ListView[*models.Manufacturer]{
		Base:   h.base(c, "Manufacturers"),
		Page:   p,
		Param:  search.ManufacturerParam,
		Query:  query,
		Action: URL(RouteManufacturerList),
	})
}

func (h *Handler) ManufacturerCreatePage(c *gin.Context) {
	h.render(c, http.StatusOK, PageManufacturerForm, ManufacturerFormView{
		Base: h.base(c, "Create manufacturer"),
	})
}

func (h *Handler) ManufacturerCreate(c *gin.Context) {
	var form models.ManufacturerForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}

	_, err := h.svc.Manufacturer().Create(c.Request.Context(), form)
	if fields, ok := validationErrors(err); ok {
		h.render(c, http.StatusOK, PageManufacturerForm, ManufacturerFormView{
			Base:   h.base(c, "Create manufacturer"),
			Form:   form,
			Errors: fields,
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteManufacturerList))
}

func (h *Handler) ManufacturerUpdatePage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	m, err := h.svc.Manufacturer().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageManufacturerForm, ManufacturerFormView{
		Base:   h.base(c, "Update manufacturer"),
		Form:   models.ManufacturerForm{Name: m.Name, Country: m.Country},
		Object: m,
	})
}

func (h *Handler) ManufacturerUpdate(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var form models.ManufacturerForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}

	_, err = h.svc.Manufacturer().Update(c.Request.Context(), id, form)
	if fields, ok := validationErrors(err); ok {
		h.render(c, http.StatusOK, PageManufacturerForm, ManufacturerFormView{
			Base:   h.base(c, "Update manufacturer"),
			Form:   form,
			Errors: fields,
			Object: &models.Manufacturer{ID: id},
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteManufacturerList))
}

func (h *Handler) ManufacturerDeletePage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	m, err := h.svc.Manufacturer().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageConfirmDelete, ConfirmDeleteView{
		Base:   h.base(c, "Delete manufacturer"),
		Kind:   "manufacturer",
		Label:  m.Name,
		Action: URL(RouteManufacturerDelete, m.ID),
		Cancel: URL(RouteManufacturerList),
	})
}

func (h *Handler) ManufacturerDelete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Manufacturer().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteManufacturerList))
}
