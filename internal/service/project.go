package service

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crmapi/internal/engagement"
	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// ProjectInput is the payload for creating a project.
type ProjectInput struct {
	Name        string          `json:"name"`
	ContactID   string          `json:"contact_id"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   time.Time       `json:"start_date"`
	CompletedAt *time.Time      `json:"completed_at"`
}

func (in ProjectInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.ContactID, validation.Required, is.UUID),
		validation.Field(&in.Budget, validation.By(nonNegative)),
		validation.Field(&in.StartDate, validation.Required),
		validation.Field(&in.CompletedAt, validation.By(notBefore(in.StartDate))),
	)
}

// ProjectService manages projects and their engagement figures.
type ProjectService interface {
	Create(ctx context.Context, in ProjectInput) (*model.Project, error)
	// Get returns the project merged with its current metrics.
	Get(ctx context.Context, id string) (*model.ProjectDetail, error)
	List(ctx context.Context, limit, offset int) (*ListResult[model.Project], error)
	Metrics(ctx context.Context, id string, withBreakdown bool) (*model.EngagementReport, error)
}

type projectService struct {
	repo     repository.ProjectRepository
	contacts repository.ContactRepository
	metrics  MetricsCalculator
	now      func() time.Time
}

// NewProjectService constructs a new ProjectService.
func NewProjectService(repo repository.ProjectRepository, contacts repository.ContactRepository, metrics MetricsCalculator) ProjectService {
	return &projectService{repo: repo, contacts: contacts, metrics: metrics, now: utcNow}
}

func (s *projectService) Create(ctx context.Context, in ProjectInput) (*model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := requireContact(ctx, s.contacts, in.ContactID); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, &model.Project{
		ID:          uuid.New().String(),
		Name:        in.Name,
		ContactID:   in.ContactID,
		Budget:      in.Budget,
		StartDate:   in.StartDate,
		CompletedAt: in.CompletedAt,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (s *projectService) find(ctx context.Context, id string) (*model.Project, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, id string) (*model.ProjectDetail, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	report, err := s.calculate(ctx, p, false)
	if err != nil {
		return nil, err
	}
	return &model.ProjectDetail{Project: *p, Metrics: report.EngagementMetrics}, nil
}

func (s *projectService) List(ctx context.Context, limit, offset int) (*ListResult[model.Project], error) {
	res, err := s.repo.List(ctx, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *projectService) Metrics(ctx context.Context, id string, withBreakdown bool) (*model.EngagementReport, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.calculate(ctx, p, withBreakdown)
}

func (s *projectService) calculate(ctx context.Context, p *model.Project, withBreakdown bool) (*model.EngagementReport, error) {
	return s.metrics.Calculate(ctx, engagement.Window{
		ContactID: p.ContactID,
		Start:     p.StartDate,
		End:       p.CompletedAt,
	}, p.Budget, withBreakdown)
}
