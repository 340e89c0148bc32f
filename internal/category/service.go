package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]Category, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Set reads the registry visible to userID: global entries plus the user's own.
func (s *Service) Set(ctx context.Context, userID uuid.UUID) (*Set, error) {
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	set, err := NewSet(categories)
	if err != nil {
		return nil, fmt.Errorf("indexing categories: %w", err)
	}

	return set, nil
}
