package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"furniture-store/services"
)

// AdminController serves the back-office endpoints
type AdminController struct {
	responder
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService, r *render.Render) *AdminController {
	return &AdminController{responder: responder{render: r}, admin: admin}
}

func (ac *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := ac.admin.Dashboard(r.Context())
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.ok(w, http.StatusOK, envelope{"stats": d})
}

func (ac *AdminController) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := ac.admin.ListUsers(r.Context())
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.ok(w, http.StatusOK, envelope{"count": len(users), "users": users})
}

func (ac *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := ac.admin.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.message(w, http.StatusOK, "User deleted")
}

func (ac *AdminController) GetWorkshopRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := ac.admin.ListWorkshopRequests(r.Context())
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.ok(w, http.StatusOK, envelope{"count": len(reqs), "requests": reqs})
}
