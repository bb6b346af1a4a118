package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/policy"
	"furniture-store/utils"
)

// Key type for context
type contextKey string

const principalKey = contextKey("principal")

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p policy.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the caller attached by Authenticate, or an anonymous
// principal.
func PrincipalFrom(ctx context.Context) policy.Principal {
	p, _ := ctx.Value(principalKey).(policy.Principal)
	return p
}

// Auth verifies bearer tokens and enforces the access policy.
type Auth struct {
	tokens *utils.TokenIssuer
	render *render.Render
}

func NewAuth(tokens *utils.TokenIssuer, r *render.Render) *Auth {
	return &Auth{tokens: tokens, render: r}
}

func (a *Auth) fail(w http.ResponseWriter, status int, msg string) {
	a.render.JSON(w, status, map[string]interface{}{"success": false, "message": msg})
}

// Authenticate verifies the JWT and attaches the caller to the context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			a.fail(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			a.fail(w, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		claims, err := a.tokens.ParseJWT(parts[1])
		if err != nil {
			logrus.WithError(err).Debug("rejected bearer token")
			a.fail(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		// ParseJWT has already checked the hex form.
		id, _ := primitive.ObjectIDFromHex(claims.UserID)
		p := policy.Principal{UserID: id, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// Require lets the request through only when the policy allows the caller
// to perform action on resource.
func (a *Auth) Require(resource policy.Resource, action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r.Context())
			if !policy.Allow(p, resource, action) {
				if p.Anonymous() {
					a.fail(w, http.StatusUnauthorized, "Not authorized, no token")
					return
				}
				a.fail(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is Require for the back-office.
func (a *Auth) Admin(next http.Handler) http.Handler {
	return a.Require(policy.BackOffice, policy.Read)(next)
}
