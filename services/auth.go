package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
	"furniture-store/store"
	"furniture-store/utils"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type AddressInput struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

// AuthResult is returned by the operations that sign a user in.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

const tokenBytes = 32

type AuthService struct {
	users    UserStore
	notifier Notifier
	tokens   *utils.TokenIssuer
	resetTTL time.Duration
	now      Clock
}

func NewAuthService(users UserStore, notifier Notifier, tokens *utils.TokenIssuer, resetTTL time.Duration) *AuthService {
	return &AuthService{users: users, notifier: notifier, tokens: tokens, resetTTL: resetTTL, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified user and emails the verification link.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, BadRequest("User already exists")
	} else if !isNotFound(err) {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := utils.RandomToken(tokenBytes)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &models.User{
		Name:              in.Name,
		Email:             in.Email,
		Password:          hashed,
		Role:              models.RoleUser,
		VerificationToken: token,
		Addresses:         []models.Address{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, BadRequest("User already exists")
		}
		return nil, err
	}

	if err := s.notifier.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		logrus.WithError(err).WithField("user", user.ID.Hex()).Error("failed to send verification email")
	}
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return BadRequest("Invalid verification token")
	}
	user, err := s.users.FindByVerificationToken(ctx, token)
	if isNotFound(err) {
		return BadRequest("Invalid verification token")
	}
	if err != nil {
		return err
	}
	user.IsVerified = true
	user.VerificationToken = ""
	return s.users.Update(ctx, user)
}

// ResendVerification issues a fresh verification token for an unverified
// account. Unknown or already verified emails are silently ignored.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}
	token, err := utils.RandomToken(tokenBytes)
	if err != nil {
		return err
	}
	user.VerificationToken = token
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.notifier.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		logrus.WithError(err).WithField("user", user.ID.Hex()).Error("failed to resend verification email")
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if isNotFound(err) {
		return nil, Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.Password, in.Password) {
		return nil, Unauthorized("Invalid credentials")
	}
	if !user.IsVerified {
		return nil, Forbidden("Please verify your email")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ForgotPassword emails a one-time reset token. Only its hash is stored.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if isNotFound(err) {
		return NotFound("User not found")
	}
	if err != nil {
		return err
	}
	raw, err := utils.RandomToken(tokenBytes)
	if err != nil {
		return err
	}
	expires := s.now().Add(s.resetTTL)
	user.ResetPasswordToken = utils.HashToken(raw)
	user.ResetPasswordExpire = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.notifier.SendPasswordResetEmail(ctx, user.Email, user.Name, raw); err != nil {
		logrus.WithError(err).WithField("user", user.ID.Hex()).Error("failed to send password reset email")
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if uerr := s.users.Update(ctx, user); uerr != nil {
			logrus.WithError(uerr).Warn("failed to clear unsent reset token")
		}
		return Unavailable("Email could not be sent")
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) error {
	if len(password) < 6 {
		return BadRequest("password must be at least 6 characters")
	}
	user, err := s.users.FindByResetToken(ctx, utils.HashToken(rawToken), s.now())
	if isNotFound(err) {
		return BadRequest("Invalid or expired reset token")
	}
	if err != nil {
		return err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	return s.users.Update(ctx, user)
}

func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if isNotFound(err) {
		return nil, NotFound("User not found")
	}
	return user, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("name is required")
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, in ChangePasswordInput) error {
	if err := check(in); err != nil {
		return err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, in.CurrentPassword) {
		return BadRequest("Current password is incorrect")
	}
	hashed, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.users.Update(ctx, user)
}

// AddAddress appends an address. The first address, or one flagged as
// default, becomes the only default.
func (s *AuthService) AddAddress(ctx context.Context, userID primitive.ObjectID, in AddressInput) ([]models.Address, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	addr := addressFrom(in)
	addr.ID = primitive.NewObjectID()
	if len(user.Addresses) == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		clearDefaults(user)
	}
	user.Addresses = append(user.Addresses, addr)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (s *AuthService) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, in AddressInput) ([]models.Address, error) {
	aid, err := parseID(addressID, "address")
	if err != nil {
		return nil, err
	}
	if err := check(in); err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := user.FindAddress(aid)
	if i < 0 {
		return nil, NotFound("Address not found")
	}
	addr := addressFrom(in)
	addr.ID = aid
	if addr.IsDefault {
		clearDefaults(user)
	} else if user.Addresses[i].IsDefault {
		// unsetting the only default is not allowed; it stays default
		addr.IsDefault = true
	}
	user.Addresses[i] = addr
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

// DeleteAddress removes the address. If it was the default, the first
// remaining address takes over.
func (s *AuthService) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) ([]models.Address, error) {
	aid, err := parseID(addressID, "address")
	if err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := user.FindAddress(aid)
	if i < 0 {
		return nil, NotFound("Address not found")
	}
	wasDefault := user.Addresses[i].IsDefault
	user.Addresses = append(user.Addresses[:i], user.Addresses[i+1:]...)
	if wasDefault && len(user.Addresses) > 0 {
		user.Addresses[0].IsDefault = true
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func addressFrom(in AddressInput) models.Address {
	return models.Address{
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		Street:     strings.TrimSpace(in.Street),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		IsDefault:  in.IsDefault,
	}
}

func clearDefaults(u *models.User) {
	for i := range u.Addresses {
		u.Addresses[i].IsDefault = false
	}
}
