package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/auth"
	"taxifleet/pkg/models"
	"taxifleet/pkg/search"
)

func (h *Handler) CarList(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	query := c.Query(search.CarParam)

	p, err := h.svc.Car().List(c.Request.Context(), query, page)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageCarList, ListView[*models.Car]{
		Base:   h.base(c, "Cars"),
		Page:   p,
		Param:  search.CarParam,
		Query:  query,
		Action: URL(RouteCarList),
	})
}

func (h *Handler) CarDetail(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	car, err := h.svc.Car().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	view := CarDetailView{Base: h.base(c, car.Model), Car: car}
	if view.User != nil {
		view.Assigned = car.HasDriver(view.User.ID)
	}
	h.render(c, http.StatusOK, PageCarDetail, view)
}

// carFormView loads the manufacturer and driver choices for the form.
func (h *Handler) carFormView(ctx context.Context, base Base, form models.CarForm) (CarFormView, error) {
	manufacturers, err := h.svc.Manufacturer().All(ctx)
	if err != nil {
		return CarFormView{}, err
	}
	drivers, err := h.svc.Driver().All(ctx)
	if err != nil {
		return CarFormView{}, err
	}

	selected := make(map[string]bool, len(form.Drivers)+1)
	for _, id := range form.Drivers {
		selected[id] = true
	}
	return CarFormView{
		Base:          base,
		Form:          form,
		Manufacturers: manufacturers,
		Drivers:       drivers,
		Selected:      selected,
	}, nil
}

func (h *Handler) CarCreatePage(c *gin.Context) {
	view, err := h.carFormView(c.Request.Context(), h.base(c, "Create car"), models.CarForm{})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, PageCarForm, view)
}

func (h *Handler) CarCreate(c *gin.Context) {
	var form models.CarForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}

	_, err := h.svc.Car().Create(c.Request.Context(), form)
	if fields, ok := validationErrors(err); ok {
		view, err := h.carFormView(c.Request.Context(), h.base(c, "Create car"), form)
		if err != nil {
			h.fail(c, err)
			return
		}
		view.Errors = fields
		h.render(c, http.StatusOK, PageCarForm, view)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteCarList))
}

func (h *Handler) CarUpdatePage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	car, err := h.svc.Car().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	form := models.CarForm{Model: car.Model, Manufacturer: strconv.FormatInt(car.ManufacturerID, 10)}
	for _, d := range car.Drivers {
		form.Drivers = append(form.Drivers, strconv.FormatInt(d.ID, 10))
	}
	view, err := h.carFormView(c.Request.Context(), h.base(c, "Update car"), form)
	if err != nil {
		h.fail(c, err)
		return
	}
	view.Object = car
	h.render(c, http.StatusOK, PageCarForm, view)
}

func (h *Handler) CarUpdate(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var form models.CarForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}

	car, err := h.svc.Car().Update(c.Request.Context(), id, form)
	if fields, ok := validationErrors(err); ok {
		view, err := h.carFormView(c.Request.Context(), h.base(c, "Update car"), form)
		if err != nil {
			h.fail(c, err)
			return
		}
		view.Errors = fields
		view.Object = &models.Car{ID: id}
		h.render(c, http.StatusOK, PageCarForm, view)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteCarDetail, car.ID))
}

func (h *Handler) CarDeletePage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	car, err := h.svc.Car().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, PageConfirmDelete, ConfirmDeleteView{
		Base:   h.base(c, "Delete car"),
		Kind:   "car",
		Label:  car.Model,
		Action: URL(RouteCarDelete, car.ID),
		Cancel: URL(RouteCarDetail, car.ID),
	})
}

func (h *Handler) CarDelete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Car().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteCarList))
}

// ToggleCarAssign adds or removes the logged-in driver from the car.
func (h *Handler) ToggleCarAssign(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	d := auth.DriverFrom(c.Request.Context())

	if _, err := h.svc.Car().ToggleAssign(c.Request.Context(), id, d.ID); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, URL(RouteCarDetail, id))
}
