package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/models"
	"taxifleet/pkg/search"
)

func (h *Handler) DriverList(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	query := c.Query(search.DriverParam)

	p, err := h.svc.Driver().List(c.Request.Context(), query, page)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageDriverList, ListView[*models.Driver]{
		Base:   h.base(c, "Drivers"),
		Page:   p,
		Param:  search.DriverParam,
		Query:  query,
		Action: URL(RouteDriverList),
	})
}

func (h *Handler) DriverDetail(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	d, err := h.svc.Driver().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageDriverDetail, DriverDetailView{
		Base:   h.base(c, d.Username),
		Driver: d,
	})
}

func (h *Handler) DriverCreatePage(c *gin.Context) {
	h.render(c, http.StatusOK, PageDriverForm, DriverFormView{
		Base: h.base(c, "Create driver"),
	})
}

func (h *Handler) DriverCreate(c *gin.Context) {
	var form models.DriverForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}

	d, err := h.svc.Driver().Create(c.Request.Context(), form)
	if fields, ok := validationErrors(err); ok {
		form.Password1, form.Password2 = "", ""
		h.render(c, http.StatusOK, PageDriverForm, DriverFormView{
			Base:   h.base(c, "Create driver"),
			Form:   form,
			Errors: fields,
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteDriverDetail, d.ID))
}

func (h *Handler) DriverUpdatePage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	d, err := h.svc.Driver().Identify(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageLicenseForm, LicenseFormView{
		Base:   h.base(c, "Update license"),
		Form:   models.LicenseForm{LicenseNumber: d.LicenseNumber},
		Object: d,
	})
}

func (h *Handler) DriverUpdate(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var form models.LicenseForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}

	_, err = h.svc.Driver().UpdateLicense(c.Request.Context(), id, form)
	if fields, ok := validationErrors(err); ok {
		h.render(c, http.StatusOK, PageLicenseForm, LicenseFormView{
			Base:   h.base(c, "Update license"),
			Form:   form,
			Errors: fields,
			Object: &models.Driver{ID: id},
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteDriverList))
}

func (h *Handler) DriverDeletePage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	d, err := h.svc.Driver().Identify(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageConfirmDelete, ConfirmDeleteView{
		Base:   h.base(c, "Delete driver"),
		Kind:   "driver",
		Label:  d.Username,
		Action: URL(RouteDriverDelete, d.ID),
		Cancel: URL(RouteDriverDetail, d.ID),
	})
}

func (h *Handler) DriverDelete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Driver().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteDriverList))
}
