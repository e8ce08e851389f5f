package service

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// ContactInput is the payload for creating a contact.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

func (in ContactInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Email, is.EmailFormat),
		validation.Field(&in.Phone, validation.Length(0, 50)),
		validation.Field(&in.Company, validation.Length(0, 200)),
	)
}

// ContactService manages contacts.
type ContactService interface {
	Create(ctx context.Context, in ContactInput) (*model.Contact, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context, limit, offset int) (*ListResult[model.Contact], error)
}

type contactService struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactService constructs a new ContactService.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo, now: utcNow}
}

func (s *contactService) Create(ctx context.Context, in ContactInput) (*model.Contact, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, &model.Contact{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		CreatedAt: s.now(),
	})
	return c, translate(err)
}

func (s *contactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *contactService) List(ctx context.Context, limit, offset int) (*ListResult[model.Contact], error) {
	res, err := s.repo.List(ctx, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}
