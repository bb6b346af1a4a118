package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"furniture-store/models"
)

type WorkshopInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Requirement string `json:"requirement" validate:"required"`
}

type WorkshopService struct {
	requests WorkshopStore
	users    UserStore
	notifier Notifier
	now      Clock
}

func NewWorkshopService(requests WorkshopStore, users UserStore, notifier Notifier) *WorkshopService {
	return &WorkshopService{requests: requests, users: users, notifier: notifier, now: time.Now}
}

// SubmitWorkshopRequest stores the enquiry and forwards it to every admin.
func (s *WorkshopService) SubmitWorkshopRequest(ctx context.Context, in WorkshopInput) (*models.WorkshopRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Requirement = strings.TrimSpace(in.Requirement)
	if err := check(in); err != nil {
		return nil, err
	}
	req := &models.WorkshopRequest{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Requirement: in.Requirement,
		CreatedAt:   s.now(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	admins, err := s.users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		logrus.WithError(err).Warn("could not load admins for workshop request")
		return req, nil
	}
	for _, admin := range admins {
		if err := s.notifier.SendWorkshopRequestEmail(ctx, admin.Email, req); err != nil {
			logrus.WithError(err).WithField("to", admin.Email).Error("failed to forward workshop request")
		}
	}
	return req, nil
}
