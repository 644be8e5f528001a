package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"searchbridge/internal/convert"
	"searchbridge/internal/model"
	"searchbridge/internal/repository"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidName   = errors.New("name may only contain letters, digits, '.', '_' and '-'")
	ErrIndexRequired = errors.New("index is required")
	ErrNotFound      = errors.New("saved query not found")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// SavedQueryListResult is the service-level DTO for paginated saved queries.
type SavedQueryListResult struct {
	Items []model.SavedQuery `json:"data"`
	Total int                `json:"total"`
}

// SavedQueryService stores named search bodies and runs them on demand.
type SavedQueryService interface {
	// Save creates the query or replaces the index and body of an existing one.
	Save(ctx context.Context, name, index string, body map[string]any) (*model.SavedQuery, error)

	// Get returns a single query by name.
	Get(ctx context.Context, name string) (*model.SavedQuery, error)

	// List returns queries ordered by name using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*SavedQueryListResult, error)

	// Delete removes a query by name.
	Delete(ctx context.Context, name string) error

	// Run executes the stored body with overrides merged on top. Overrides
	// replace top-level keys; nil values are ignored.
	Run(ctx context.Context, name string, overrides map[string]any) (map[string]any, error)
}

type savedQueryService struct {
	repo   repository.SavedQueryRepository
	search SearchService
	now    func() time.Time
}

// NewSavedQueryService constructs a new SavedQueryService.
func NewSavedQueryService(repo repository.SavedQueryRepository, search SearchService) SavedQueryService {
	return &savedQueryService{repo: repo, search: search, now: time.Now}
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

func (s *savedQueryService) Save(ctx context.Context, name, index string, body map[string]any) (*model.SavedQuery, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if index == "" {
		return nil, ErrIndexRequired
	}
	// Reject bodies that could never run.
	if _, err := convert.SearchRequest([]string{index}, body); err != nil {
		return nil, invalid(err)
	}
	if body == nil {
		body = map[string]any{}
	}

	now := s.now().UTC()
	return s.repo.Upsert(ctx, &model.SavedQuery{
		ID:        uuid.New().String(),
		Name:      name,
		Index:     index,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *savedQueryService) Get(ctx context.Context, name string) (*model.SavedQuery, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	q, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *savedQueryService) List(ctx context.Context, limit, offset int) (*SavedQueryListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &SavedQueryListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *savedQueryService) Delete(ctx context.Context, name string) error {
	if name == "" {
		return ErrNameRequired
	}
	err := s.repo.Delete(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *savedQueryService) Run(ctx context.Context, name string, overrides map[string]any) (map[string]any, error) {
	q, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.search.Search(ctx, []string{q.Index}, convert.MergeBody(q.Body, overrides))
}
