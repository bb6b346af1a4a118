package controllers

import (
	"net/http"

	"github.com/unrolled/render"

	"furniture-store/services"
)

type WorkshopController struct {
	responder
	workshops *services.WorkshopService
}

func NewWorkshopController(workshops *services.WorkshopService, r *render.Render) *WorkshopController {
	return &WorkshopController{responder: responder{render: r}, workshops: workshops}
}

func (wc *WorkshopController) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var in services.WorkshopInput
	if err := decode(r, &in); err != nil {
		wc.fail(w, r, err)
		return
	}
	req, err := wc.workshops.SubmitWorkshopRequest(r.Context(), in)
	if err != nil {
		wc.fail(w, r, err)
		return
	}
	wc.ok(w, http.StatusCreated, envelope{"message": "Request received. We will get back to you soon.", "request": req})
}
