package service

import (
	"context"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/repository"
)

// PolicyOverview is the read-only view of the recommendation policy
// tables served to the dashboard.
type PolicyOverview struct {
	Minimums        map[string]int `json:"minimums"`
	FixedReferences []string       `json:"fixed_references"`
	MultiBrands     []string       `json:"multi_brands"`
	ExcludedCodes   []string       `json:"excluded_codes"`
}

// ConfigService serves the operator-managed configuration tables.
type ConfigService struct {
	configs repository.ConfigRepository
}

func NewConfigService(configs repository.ConfigRepository) *ConfigService {
	return &ConfigService{configs: configs}
}

func (s *ConfigService) Stores(ctx context.Context) ([]domain.StoreConfig, error) {
	return s.configs.Stores(ctx)
}

func (s *ConfigService) StockMinimums(ctx context.Context) (map[string]int, error) {
	return s.configs.Minimums(ctx)
}

func (s *ConfigService) FixedReferences(ctx context.Context) ([]string, error) {
	return s.configs.FixedReferences(ctx)
}

func (s *ConfigService) ExcludedCodes(ctx context.Context) ([]string, error) {
	return s.configs.ExcludedCodes(ctx)
}

func (s *ConfigService) Policy(ctx context.Context) (*PolicyOverview, error) {
	minimums, err := s.configs.Minimums(ctx)
	if err != nil {
		return nil, err
	}
	fixedRefs, err := s.configs.FixedReferences(ctx)
	if err != nil {
		return nil, err
	}
	multiBrands, err := s.configs.MultiBrands(ctx)
	if err != nil {
		return nil, err
	}
	excluded, err := s.configs.ExcludedCodes(ctx)
	if err != nil {
		return nil, err
	}
	return &PolicyOverview{
		Minimums:        minimums,
		FixedReferences: fixedRefs,
		MultiBrands:     multiBrands,
		ExcludedCodes:   excluded,
	}, nil
}
