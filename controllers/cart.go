package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"furniture-store/middleware"
	"furniture-store/services"
)

// CartController handles cart-related requests
type CartController struct {
	responder
	carts *services.CartService
}

// NewCartController creates a new CartController
func NewCartController(carts *services.CartService, r *render.Render) *CartController {
	return &CartController{responder: responder{render: r}, carts: carts}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

// GetCart retrieves the user's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	cart, err := cc.carts.GetCart(r.Context(), p.UserID)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	cc.ok(w, http.StatusOK, envelope{"cart": cart})
}

// AddToCart adds a product to the user's cart. Quantity defaults to 1.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decode(r, &req); err != nil {
		cc.fail(w, r, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	p := middleware.PrincipalFrom(r.Context())
	cart, err := cc.carts.AddToCart(r.Context(), p.UserID, req.ProductID, qty)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	cc.ok(w, http.StatusOK, envelope{"cart": cart})
}

func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decode(r, &req); err != nil {
		cc.fail(w, r, err)
		return
	}
	if req.Quantity == nil {
		cc.fail(w, r, services.BadRequest("quantity is required"))
		return
	}
	p := middleware.PrincipalFrom(r.Context())
	cart, err := cc.carts.UpdateCartItem(r.Context(), p.UserID, mux.Vars(r)["productId"], *req.Quantity)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	cc.ok(w, http.StatusOK, envelope{"cart": cart})
}

// RemoveFromCart removes a product from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	cart, err := cc.carts.RemoveFromCart(r.Context(), p.UserID, mux.Vars(r)["productId"])
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	cc.ok(w, http.StatusOK, envelope{"cart": cart})
}

func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	if err := cc.carts.ClearCart(r.Context(), p.UserID); err != nil {
		cc.fail(w, r, err)
		return
	}
	cc.message(w, http.StatusOK, "Cart cleared")
}
