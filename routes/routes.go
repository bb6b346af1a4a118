package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"furniture-store/controllers"
	"furniture-store/middleware"
	"furniture-store/policy"
)

// Controllers groups the handlers mounted by RegisterRoutes.
type Controllers struct {
	Users     *controllers.UserController
	Products  *controllers.ProductController
	Cart      *controllers.CartController
	Wishlist  *controllers.WishlistController
	Orders    *controllers.OrderController
	Admin     *controllers.AdminController
	Invites   *controllers.InviteController
	Workshops *controllers.WorkshopController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, auth *middleware.Auth, c Controllers) {
	allow := func(res policy.Resource, act policy.Action, h http.HandlerFunc) http.Handler {
		return auth.Require(res, act)(h)
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"status":"ok"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// Auth routes
	authR := api.PathPrefix("/auth").Subrouter()
	authR.HandleFunc("/register", c.Users.Register).Methods(http.MethodPost)
	authR.HandleFunc("/verify-email/{token}", c.Users.VerifyEmail).Methods(http.MethodGet)
	authR.HandleFunc("/resend-verification", c.Users.ResendVerification).Methods(http.MethodPost)
	authR.HandleFunc("/login", c.Users.Login).Methods(http.MethodPost)
	authR.HandleFunc("/forgot-password", c.Users.ForgotPassword).Methods(http.MethodPost)
	authR.HandleFunc("/reset-password/{token}", c.Users.ResetPassword).Methods(http.MethodPut)

	account := api.PathPrefix("/auth").Subrouter()
	account.Use(auth.Authenticate)
	account.Handle("/me", allow(policy.Profile, policy.Read, c.Users.GetProfile)).Methods(http.MethodGet)
	account.Handle("/profile", allow(policy.Profile, policy.Update, c.Users.UpdateProfile)).Methods(http.MethodPut)
	account.Handle("/password", allow(policy.Profile, policy.Update, c.Users.ChangePassword)).Methods(http.MethodPut)
	account.Handle("/addresses", allow(policy.Profile, policy.Update, c.Users.AddAddress)).Methods(http.MethodPost)
	account.Handle("/addresses/{id}", allow(policy.Profile, policy.Update, c.Users.UpdateAddress)).Methods(http.MethodPut)
	account.Handle("/addresses/{id}", allow(policy.Profile, policy.Update, c.Users.DeleteAddress)).Methods(http.MethodDelete)

	// Product routes
	api.Handle("/products", allow(policy.Products, policy.Read, c.Products.GetProducts)).Methods(http.MethodGet)
	api.Handle("/products/{id}", allow(policy.Products, policy.Read, c.Products.GetProductByID)).Methods(http.MethodGet)

	productAdmin := api.PathPrefix("/products").Subrouter()
	productAdmin.Use(auth.Authenticate)
	productAdmin.Handle("", allow(policy.Products, policy.Create, c.Products.CreateProduct)).Methods(http.MethodPost)
	productAdmin.Handle("/{id}", allow(policy.Products, policy.Update, c.Products.UpdateProduct)).Methods(http.MethodPut)
	productAdmin.Handle("/{id}", allow(policy.Products, policy.Delete, c.Products.DeleteProduct)).Methods(http.MethodDelete)

	// Cart routes
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(auth.Authenticate)
	cart.Handle("", allow(policy.Cart, policy.Read, c.Cart.GetCart)).Methods(http.MethodGet)
	cart.Handle("", allow(policy.Cart, policy.Create, c.Cart.AddToCart)).Methods(http.MethodPost)
	cart.Handle("", allow(policy.Cart, policy.Delete, c.Cart.ClearCart)).Methods(http.MethodDelete)
	cart.Handle("/{productId}", allow(policy.Cart, policy.Update, c.Cart.UpdateCartItem)).Methods(http.MethodPut)
	cart.Handle("/{productId}", allow(policy.Cart, policy.Delete, c.Cart.RemoveFromCart)).Methods(http.MethodDelete)

	// Wishlist routes
	wishlist := api.PathPrefix("/wishlist").Subrouter()
	wishlist.Use(auth.Authenticate)
	wishlist.Handle("", allow(policy.Wishlist, policy.Read, c.Wishlist.GetWishlist)).Methods(http.MethodGet)
	wishlist.Handle("", allow(policy.Wishlist, policy.Create, c.Wishlist.AddToWishlist)).Methods(http.MethodPost)
	wishlist.Handle("/{productId}", allow(policy.Wishlist, policy.Delete, c.Wishlist.RemoveFromWishlist)).Methods(http.MethodDelete)

	// Order routes
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(auth.Authenticate)
	orders.Handle("", allow(policy.Orders, policy.Create, c.Orders.CreateOrder)).Methods(http.MethodPost)
	orders.Handle("/my", allow(policy.Orders, policy.Read, c.Orders.GetMyOrders)).Methods(http.MethodGet)
	orders.Handle("/payment/create", allow(policy.Payments, policy.Create, c.Orders.CreatePaymentOrder)).Methods(http.MethodPost)
	orders.Handle("/payment/verify", allow(policy.Payments, policy.Update, c.Orders.VerifyPayment)).Methods(http.MethodPost)
	orders.Handle("/{id}", allow(policy.Orders, policy.Read, c.Orders.GetOrder)).Methods(http.MethodGet)

	// Workshop requests
	api.Handle("/workshop", allow(policy.Workshop, policy.Create, c.Workshops.SubmitRequest)).Methods(http.MethodPost)

	// Invite acceptance is public and must be matched before the admin subrouter.
	api.Handle("/admin/invites/accept", allow(policy.Invites, policy.Consume, c.Invites.AcceptInvite)).Methods(http.MethodPost)
	api.Handle("/admin/invites/{token}", allow(policy.Invites, policy.Read, c.Invites.InspectInvite)).Methods(http.MethodGet)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Authenticate)
	admin.Use(auth.Admin)
	admin.HandleFunc("/dashboard", c.Admin.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/users", c.Admin.GetUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", c.Admin.DeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/orders", c.Orders.GetOrders).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{id}/status", c.Orders.UpdateOrderStatus).Methods(http.MethodPut)
	admin.HandleFunc("/products", c.Products.GetAllProducts).Methods(http.MethodGet)
	admin.HandleFunc("/workshop-requests", c.Admin.GetWorkshopRequests).Methods(http.MethodGet)
	admin.HandleFunc("/invites", c.Invites.CreateInvite).Methods(http.MethodPost)
	admin.HandleFunc("/invites", c.Invites.ListInvites).Methods(http.MethodGet)
}
