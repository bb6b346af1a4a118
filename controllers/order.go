package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"furniture-store/middleware"
	"furniture-store/services"
)

// OrderController handles order and payment requests
type OrderController struct {
	responder
	orders   *services.OrderService
	payments *services.PaymentService
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *services.OrderService, payments *services.PaymentService, r *render.Render) *OrderController {
	return &OrderController{responder: responder{render: r}, orders: orders, payments: payments}
}

// CreateOrder places an order from the caller's cart
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if err := decode(r, &in); err != nil {
		oc.fail(w, r, err)
		return
	}
	order, err := oc.orders.Checkout(r.Context(), middleware.PrincipalFrom(r.Context()), in)
	if err != nil {
		oc.fail(w, r, err)
		return
	}
	oc.ok(w, http.StatusCreated, envelope{"order": order})
}

// GetMyOrders retrieves the caller's orders, newest first
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.orders.MyOrders(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		oc.fail(w, r, err)
		return
	}
	oc.ok(w, http.StatusOK, envelope{"count": len(orders), "orders": orders})
}

func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := oc.orders.GetOrder(r.Context(), middleware.PrincipalFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		oc.fail(w, r, err)
		return
	}
	oc.ok(w, http.StatusOK, envelope{"order": order})
}

// GetOrders lists every order (Admin only)
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.orders.ListOrders(r.Context())
	if err != nil {
		oc.fail(w, r, err)
		return
	}
	oc.ok(w, http.StatusOK, envelope{"count": len(orders), "orders": orders})
}

// UpdateOrderStatus moves an order to a new status (Admin only)
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		oc.fail(w, r, err)
		return
	}
	order, err := oc.orders.UpdateOrderStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		oc.fail(w, r, err)
		return
	}
	oc.ok(w, http.StatusOK, envelope{"order": order})
}

// CreatePaymentOrder opens a gateway order for the amount to be paid
func (oc *OrderController) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		oc.fail(w, r, err)
		return
	}
	po, err := oc.payments.CreatePaymentOrder(r.Context(), req.Amount)
	if err != nil {
		oc.fail(w, r, err)
		return
	}
	oc.ok(w, http.StatusOK, envelope{
		"order": envelope{"id": po.ID, "amount": po.Amount, "currency": po.Currency, "receipt": po.Receipt},
		"keyId": po.KeyID,
	})
}

func (oc *OrderController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var in services.VerifyPaymentInput
	if err := decode(r, &in); err != nil {
		oc.fail(w, r, err)
		return
	}
	valid, err := oc.payments.VerifyPayment(in)
	if err != nil {
		oc.fail(w, r, err)
		return
	}
	if !valid {
		oc.render.JSON(w, http.StatusBadRequest, envelope{"success": false, "valid": false, "message": "Invalid payment signature"})
		return
	}
	oc.ok(w, http.StatusOK, envelope{"valid": true, "message": "Payment verified"})
}
