package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"furniture-store/models"
	"furniture-store/policy"
	"furniture-store/store"
	"furniture-store/utils"
)

type CreateInviteInput struct {
	Email     string `json:"email" validate:"required,email"`
	SendEmail bool   `json:"sendEmail"`
}

// ConsumeInviteInput accepts an invite for the invited address only. An
// existing account proves ownership with its Password; otherwise Name and
// Password create the account.
type ConsumeInviteInput struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
}

// InviteStatus is what an anonymous caller may learn about an invite token.
type InviteStatus struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
	Valid     bool      `json:"valid"`
	Reason    string    `json:"reason,omitempty"`
}

type InviteService struct {
	invites  InviteStore
	users    UserStore
	notifier Notifier
	tokens   *utils.TokenIssuer
	ttl      time.Duration
	now      Clock
}

func NewInviteService(invites InviteStore, users UserStore, notifier Notifier, tokens *utils.TokenIssuer, ttl time.Duration) *InviteService {
	return &InviteService{invites: invites, users: users, notifier: notifier, tokens: tokens, ttl: ttl, now: time.Now}
}

func (s *InviteService) CreateInvite(ctx context.Context, p policy.Principal, in CreateInviteInput) (*models.AdminInvite, error) {
	in.Email = normalizeEmail(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}
	token, err := utils.RandomToken(tokenBytes)
	if err != nil {
		return nil, err
	}
	now := s.now()
	invite := &models.AdminInvite{
		Token:     token,
		Email:     in.Email,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if !p.Anonymous() {
		creator := p.UserID
		invite.CreatedBy = &creator
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"email": invite.Email, "expiresAt": invite.ExpiresAt}).Info("admin invite created")

	if in.SendEmail {
		if err := s.notifier.SendAdminInviteEmail(ctx, invite.Email, invite.Token, invite.ExpiresAt); err != nil {
			logrus.WithError(err).WithField("email", invite.Email).Error("failed to send admin invite email")
		}
	}
	return invite, nil
}

func (s *InviteService) ListInvites(ctx context.Context) ([]models.AdminInvite, error) {
	return s.invites.List(ctx)
}

// lookup applies the acceptance checks in order: unknown, expired, used.
func (s *InviteService) lookup(ctx context.Context, token string) (*models.AdminInvite, error) {
	invite, err := s.invites.FindByToken(ctx, token)
	if isNotFound(err) {
		return nil, NotFound("Invalid invite")
	}
	if err != nil {
		return nil, err
	}
	if invite.ExpiredAt(s.now()) {
		return invite, BadRequest("Invite expired")
	}
	if invite.Used {
		return invite, BadRequest("Invite already used")
	}
	return invite, nil
}

func (s *InviteService) InspectInvite(ctx context.Context, token string) (*InviteStatus, error) {
	invite, err := s.lookup(ctx, token)
	var se *Error
	if errors.As(err, &se) && invite != nil {
		return &InviteStatus{Email: invite.Email, ExpiresAt: invite.ExpiresAt, Reason: se.Message}, nil
	}
	if err != nil {
		return nil, err
	}
	return &InviteStatus{Email: invite.Email, ExpiresAt: invite.ExpiresAt, Valid: true}, nil
}

// ConsumeInvite grants the admin role to the invited address. The invite is
// claimed with a conditional update, so of two concurrent acceptances only one
// succeeds. If the account change fails afterwards the claim is released.
func (s *InviteService) ConsumeInvite(ctx context.Context, in ConsumeInviteInput) (*AuthResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	invite, err := s.lookup(ctx, in.Token)
	if err != nil {
		return nil, err
	}

	email := invite.Email
	if in.Email != "" && normalizeEmail(in.Email) != email {
		return nil, Forbidden("This invite was issued for a different email")
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil && !utils.CheckPassword(existing.Password, in.Password) {
		return nil, Unauthorized("Invalid credentials")
	}
	if existing == nil {
		if strings.TrimSpace(in.Name) == "" {
			return nil, BadRequest("name is required")
		}
		if len(in.Password) < 6 {
			return nil, BadRequest("password must be at least 6 characters")
		}
	}

	claimed, err := s.invites.Claim(ctx, invite.Token, s.now())
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, BadRequest("Invite already used")
	}

	user, err := s.grant(ctx, existing, email, in)
	if err != nil {
		if rerr := s.invites.Release(context.WithoutCancel(ctx), invite.Token); rerr != nil {
			logrus.WithError(rerr).WithField("invite", invite.ID.Hex()).Error("failed to release invite")
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user": user.ID.Hex(), "invite": invite.ID.Hex()}).Info("admin invite accepted")

	token, err := s.tokens.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// grant promotes existing, or creates a verified admin when existing is nil.
func (s *InviteService) grant(ctx context.Context, existing *models.User, email string, in ConsumeInviteInput) (*models.User, error) {
	if existing != nil {
		existing.Role = models.RoleAdmin
		existing.IsVerified = true
		existing.VerificationToken = ""
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &models.User{
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		Password:   hashed,
		Role:       models.RoleAdmin,
		IsVerified: true,
		Addresses:  []models.Address{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, BadRequest("User already exists")
		}
		return nil, err
	}
	return user, nil
}
