package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furniture-store/models"
	"furniture-store/utils"
)

type authFixture struct {
	svc      *AuthService
	users    *fakeUsers
	notifier *fakeNotifier
	tokens   *utils.TokenIssuer
	now      time.Time
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newFakeUsers(),
		notifier: &fakeNotifier{},
		tokens:   utils.NewTokenIssuer("test-secret", time.Hour),
		now:      time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	}
	f.svc = NewAuthService(f.users, f.notifier, f.tokens, time.Hour)
	f.svc.now = fixedClock(f.now)
	return f
}

func (f *authFixture) register(t *testing.T) *models.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)
	return u
}

func TestRegisterAndVerify(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := f.register(t)

	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "secret1", u.Password)
	assert.Len(t, f.notifier.verif, 64)

	_, err := f.svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "secret1"})
	requireServiceError(t, err, http.StatusForbidden, "Please verify your email")

	requireServiceError(t, f.svc.VerifyEmail(ctx, "bogus"), http.StatusBadRequest, "")
	require.NoError(t, f.svc.VerifyEmail(ctx, f.notifier.verif))

	stored, _ := f.users.FindByID(ctx, u.ID)
	assert.True(t, stored.IsVerified)
	assert.Empty(t, stored.VerificationToken)

	res, err := f.svc.Login(ctx, LoginInput{Email: "ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := f.tokens.ParseJWT(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterRejections(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.register(t)

	_, err := f.svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	requireServiceError(t, err, http.StatusBadRequest, "User already exists")

	_, err = f.svc.Register(ctx, RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "12345"})
	requireServiceError(t, err, http.StatusBadRequest, "password must be at least 6 characters")

	_, err = f.svc.Register(ctx, RegisterInput{Name: "Bo", Email: "bo-at-example", Password: "secret1"})
	requireServiceError(t, err, http.StatusBadRequest, "Invalid email address")
}

func TestRegisterSurvivesEmailFailure(t *testing.T) {
	f := newAuthFixture()
	f.notifier.err = errors.New("provider down")
	f.register(t)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.register(t)

	_, err := f.svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong-pass"})
	requireServiceError(t, err, http.StatusUnauthorized, "Invalid credentials")

	_, err = f.svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	requireServiceError(t, err, http.StatusUnauthorized, "Invalid credentials")
}

func TestPasswordReset(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := f.register(t)

	require.NoError(t, f.svc.ForgotPassword(ctx, "ana@example.com"))
	raw := f.notifier.reset
	require.NotEmpty(t, raw)

	stored, _ := f.users.FindByID(ctx, u.ID)
	assert.Equal(t, utils.HashToken(raw), stored.ResetPasswordToken, "only the hash is stored")
	assert.Equal(t, f.now.Add(time.Hour), *stored.ResetPasswordExpire)

	requireServiceError(t, f.svc.ResetPassword(ctx, "wrong", "newpass1"), http.StatusBadRequest, "Invalid or expired reset token")
	require.NoError(t, f.svc.ResetPassword(ctx, raw, "newpass1"))

	stored, _ = f.users.FindByID(ctx, u.ID)
	assert.True(t, utils.CheckPassword(stored.Password, "newpass1"))
	assert.Empty(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)

	requireServiceError(t, f.svc.ResetPassword(ctx, raw, "another1"), http.StatusBadRequest, "")
}

func TestPasswordResetExpires(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.register(t)
	require.NoError(t, f.svc.ForgotPassword(ctx, "ana@example.com"))

	f.svc.now = fixedClock(f.now.Add(61 * time.Minute))
	requireServiceError(t, f.svc.ResetPassword(ctx, f.notifier.reset, "newpass1"), http.StatusBadRequest, "Invalid or expired reset token")
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture()
	requireServiceError(t, f.svc.ForgotPassword(context.Background(), "ghost@example.com"), http.StatusNotFound, "User not found")
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := f.register(t)

	err := f.svc.ChangePassword(ctx, u.ID, ChangePasswordInput{CurrentPassword: "nope", NewPassword: "newpass1"})
	requireServiceError(t, err, http.StatusBadRequest, "Current password is incorrect")

	require.NoError(t, f.svc.ChangePassword(ctx, u.ID, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "newpass1"}))
	stored, _ := f.users.FindByID(ctx, u.ID)
	assert.True(t, utils.CheckPassword(stored.Password, "newpass1"))
}

func TestAddressDefaults(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := f.register(t)
	addr := func(name string, def bool) AddressInput {
		return AddressInput{FullName: name, Phone: "1", Street: "s", City: "c", PostalCode: "p", IsDefault: def}
	}

	list, err := f.svc.AddAddress(ctx, u.ID, addr("home", false))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault, "first address becomes default")

	list, err = f.svc.AddAddress(ctx, u.ID, addr("office", false))
	require.NoError(t, err)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	list, err = f.svc.AddAddress(ctx, u.ID, addr("cabin", true))
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true}, defaults(list))

	list, err = f.svc.UpdateAddress(ctx, u.ID, list[1].ID.Hex(), addr("office", true))
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, defaults(list))

	list, err = f.svc.DeleteAddress(ctx, u.ID, list[1].ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []bool{true, false}, defaults(list), "a default remains after deleting the default")

	_, err = f.svc.UpdateAddress(ctx, u.ID, "0123456789ab0123456789ab", addr("x", false))
	requireServiceError(t, err, http.StatusNotFound, "Address not found")
}

func defaults(list []models.Address) []bool {
	out := make([]bool, len(list))
	for i, a := range list {
		out[i] = a.IsDefault
	}
	return out
}

func TestUpdateProfile(t *testing.T) {
	f := newAuthFixture()
	u := f.register(t)

	updated, err := f.svc.UpdateProfile(context.Background(), u.ID, "  Ana Maria ")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)

	_, err = f.svc.UpdateProfile(context.Background(), u.ID, " ")
	requireServiceError(t, err, http.StatusBadRequest, "name is required")
}

func TestResendVerification(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.register(t)
	first := f.notifier.verif

	require.NoError(t, f.svc.ResendVerification(ctx, "ana@example.com"))
	assert.NotEqual(t, first, f.notifier.verif)
	require.NoError(t, f.svc.ResendVerification(ctx, "ghost@example.com"))
	assert.Len(t, f.notifier.sent, 2)
}
