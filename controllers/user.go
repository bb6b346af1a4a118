package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"furniture-store/middleware"
	"furniture-store/services"
)

// UserController handles authentication and account requests
type UserController struct {
	responder
	auth *services.AuthService
}

// NewUserController creates a new UserController
func NewUserController(auth *services.AuthService, r *render.Render) *UserController {
	return &UserController{responder: responder{render: r}, auth: auth}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	user, err := uc.auth.Register(r.Context(), in)
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.ok(w, http.StatusCreated, envelope{
		"message": "User registered successfully. Please check your email to verify your account.",
		"user":    user,
	})
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := uc.auth.VerifyEmail(r.Context(), mux.Vars(r)["token"]); err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.message(w, http.StatusOK, "Email verified successfully")
}

func (uc *UserController) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	if err := uc.auth.ResendVerification(r.Context(), in.Email); err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.message(w, http.StatusOK, "If the account exists and is not verified, a new link has been sent")
}

// Login handles user login
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	res, err := uc.auth.Login(r.Context(), in)
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.ok(w, http.StatusOK, envelope{"token": res.Token, "user": res.User})
}

func (uc *UserController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	if err := uc.auth.ForgotPassword(r.Context(), in.Email); err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.message(w, http.StatusOK, "Password reset email sent")
}

func (uc *UserController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	if err := uc.auth.ResetPassword(r.Context(), mux.Vars(r)["token"], in.Password); err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.message(w, http.StatusOK, "Password reset successful")
}

// GetProfile returns the signed-in user
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	user, err := uc.auth.Me(r.Context(), p.UserID)
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.ok(w, http.StatusOK, envelope{"user": user})
}

func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	p := middleware.PrincipalFrom(r.Context())
	user, err := uc.auth.UpdateProfile(r.Context(), p.UserID, in.Name)
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.ok(w, http.StatusOK, envelope{"user": user})
}

func (uc *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in services.ChangePasswordInput
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	p := middleware.PrincipalFrom(r.Context())
	if err := uc.auth.ChangePassword(r.Context(), p.UserID, in); err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.message(w, http.StatusOK, "Password updated")
}

func (uc *UserController) AddAddress(w http.ResponseWriter, r *http.Request) {
	var in services.AddressInput
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	p := middleware.PrincipalFrom(r.Context())
	addresses, err := uc.auth.AddAddress(r.Context(), p.UserID, in)
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.ok(w, http.StatusCreated, envelope{"addresses": addresses})
}

func (uc *UserController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var in services.AddressInput
	if err := decode(r, &in); err != nil {
		uc.fail(w, r, err)
		return
	}
	p := middleware.PrincipalFrom(r.Context())
	addresses, err := uc.auth.UpdateAddress(r.Context(), p.UserID, mux.Vars(r)["id"], in)
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.ok(w, http.StatusOK, envelope{"addresses": addresses})
}

func (uc *UserController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	addresses, err := uc.auth.DeleteAddress(r.Context(), p.UserID, mux.Vars(r)["id"])
	if err != nil {
		uc.fail(w, r, err)
		return
	}
	uc.ok(w, http.StatusOK, envelope{"addresses": addresses})
}
