package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"furniture-store/middleware"
	"furniture-store/services"
)

type InviteController struct {
	responder
	invites *services.InviteService
}

func NewInviteController(invites *services.InviteService, r *render.Render) *InviteController {
	return &InviteController{responder: responder{render: r}, invites: invites}
}

func (ic *InviteController) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var in services.CreateInviteInput
	if err := decode(r, &in); err != nil {
		ic.fail(w, r, err)
		return
	}
	invite, err := ic.invites.CreateInvite(r.Context(), middleware.PrincipalFrom(r.Context()), in)
	if err != nil {
		ic.fail(w, r, err)
		return
	}
	ic.ok(w, http.StatusCreated, envelope{"invite": invite})
}

func (ic *InviteController) ListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := ic.invites.ListInvites(r.Context())
	if err != nil {
		ic.fail(w, r, err)
		return
	}
	ic.ok(w, http.StatusOK, envelope{"count": len(invites), "invites": invites})
}

// InspectInvite tells the accept page whom the invite is for and whether it
// can still be used.
func (ic *InviteController) InspectInvite(w http.ResponseWriter, r *http.Request) {
	status, err := ic.invites.InspectInvite(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		ic.fail(w, r, err)
		return
	}
	ic.ok(w, http.StatusOK, envelope{"invite": status})
}

func (ic *InviteController) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var in services.ConsumeInviteInput
	if err := decode(r, &in); err != nil {
		ic.fail(w, r, err)
		return
	}
	res, err := ic.invites.ConsumeInvite(r.Context(), in)
	if err != nil {
		ic.fail(w, r, err)
		return
	}
	ic.ok(w, http.StatusOK, envelope{"message": "Invite accepted", "token": res.Token, "user": res.User})
}
