package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"furniture-store/middleware"
	"furniture-store/services"
)

type WishlistController struct {
	responder
	wishlists *services.WishlistService
}

func NewWishlistController(wishlists *services.WishlistService, r *render.Render) *WishlistController {
	return &WishlistController{responder: responder{render: r}, wishlists: wishlists}
}

func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	wl, err := wc.wishlists.GetWishlist(r.Context(), p.UserID)
	if err != nil {
		wc.fail(w, r, err)
		return
	}
	wc.ok(w, http.StatusOK, envelope{"wishlist": wl})
}

func (wc *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := decode(r, &req); err != nil {
		wc.fail(w, r, err)
		return
	}
	p := middleware.PrincipalFrom(r.Context())
	wl, err := wc.wishlists.AddToWishlist(r.Context(), p.UserID, req.ProductID)
	if err != nil {
		wc.fail(w, r, err)
		return
	}
	wc.ok(w, http.StatusOK, envelope{"wishlist": wl})
}

func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	wl, err := wc.wishlists.RemoveFromWishlist(r.Context(), p.UserID, mux.Vars(r)["productId"])
	if err != nil {
		wc.fail(w, r, err)
		return
	}
	wc.ok(w, http.StatusOK, envelope{"wishlist": wl})
}
