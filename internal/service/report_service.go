package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jagimahalo/restock-backend/internal/cache"
	"github.com/jagimahalo/restock-backend/internal/config"
	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/engine"
	"github.com/jagimahalo/restock-backend/internal/export"
	"github.com/jagimahalo/restock-backend/internal/repository"
	"github.com/jagimahalo/restock-backend/internal/storage"
)

// ReplenishmentReport is the service-level result of a replenishment
// run: the rows plus the raw store names that resolved to no region.
type ReplenishmentReport struct {
	Rows       []domain.Recommendation `json:"rows"`
	Unassigned []string                `json:"unassigned_stores"`
}

// RedistributionReport is the service-level result of a redistribution
// run.
type RedistributionReport struct {
	Suggestions []domain.TransferSuggestion `json:"suggestions"`
	Unassigned  []string                    `json:"unassigned_stores"`
}

// MovementReport carries the movement rows and their per-store summary.
type MovementReport struct {
	Rows       []domain.MovementRow     `json:"rows"`
	Summary    []domain.MovementSummary `json:"summary"`
	Unassigned []string                 `json:"unassigned_stores"`
}

// ShortageReport lists active stores missing stock of selling products.
type ShortageReport struct {
	Rows       []domain.ShortageRow `json:"rows"`
	Unassigned []string             `json:"unassigned_stores"`
}

// ReportService loads a consistent snapshot from the repositories, runs
// the engine and caches the results.
type ReportService struct {
	configs  repository.ConfigRepository
	facts    repository.FactsRepository
	engine   *engine.Engine
	cache    cache.ReportCache
	exporter storage.ObjectStorage
	cfg      config.ReportConfig
}

func NewReportService(
	configs repository.ConfigRepository,
	facts repository.FactsRepository,
	eng *engine.Engine,
	cacheImpl cache.ReportCache,
	exporter storage.ObjectStorage,
	cfg config.ReportConfig,
) *ReportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &ReportService{
		configs:  configs,
		facts:    facts,
		engine:   eng,
		cache:    cacheImpl,
		exporter: exporter,
		cfg:      cfg,
	}
}

// ApplyReplenishmentDefaults fills unset parameters from configuration.
func (s *ReportService) ApplyReplenishmentDefaults(p domain.ReplenishmentParams) domain.ReplenishmentParams {
	if p.WindowDays == 0 {
		p.WindowDays = s.cfg.WindowDays
	}
	if p.ExpansionWindowDays == 0 {
		p.ExpansionWindowDays = s.cfg.ExpansionWindowDays
	}
	if p.ExpansionSalesThreshold == 0 {
		p.ExpansionSalesThreshold = s.cfg.ExpansionThreshold
	}
	return p
}

// ApplyRedistributionDefaults fills unset parameters from configuration.
func (s *ReportService) ApplyRedistributionDefaults(p domain.RedistributionParams) domain.RedistributionParams {
	if p.WindowDays == 0 {
		p.WindowDays = s.cfg.WindowDays
	}
	if p.DemandThreshold == 0 {
		p.DemandThreshold = s.cfg.DemandThreshold
	}
	return p
}

func (s *ReportService) Replenishment(ctx context.Context, p domain.ReplenishmentParams) (*ReplenishmentReport, error) {
	p = s.ApplyReplenishmentDefaults(p)
	if err := engine.ValidateReplenishmentParams(p); err != nil {
		return nil, err
	}

	if cached, ok, err := s.cache.GetReplenishment(ctx, p); err == nil && ok {
		return &ReplenishmentReport{Rows: cached.Rows, Unassigned: cached.Unassigned}, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("replenishment: cache get failed")
	}

	ds, err := s.loadDataset(ctx, p.WindowDays, p.ExpansionWindowDays)
	if err != nil {
		return nil, err
	}
	rows, unassigned, err := s.engine.Replenishment(ds, p)
	if err != nil {
		return nil, err
	}
	s.recordUnassigned(unassigned)

	if err := s.cache.SetReplenishment(ctx, p, &cache.CachedReplenishment{Rows: rows, Unassigned: unassigned}); err != nil {
		log.Warn().Err(err).Msg("replenishment: cache set failed")
	}
	return &ReplenishmentReport{Rows: rows, Unassigned: unassigned}, nil
}

func (s *ReportService) Redistribution(ctx context.Context, p domain.RedistributionParams) (*RedistributionReport, error) {
	p = s.ApplyRedistributionDefaults(p)
	if err := engine.ValidateRedistributionParams(p); err != nil {
		return nil, err
	}

	if cached, ok, err := s.cache.GetRedistribution(ctx, p); err == nil && ok {
		return &RedistributionReport{Suggestions: cached.Suggestions, Unassigned: cached.Unassigned}, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("redistribution: cache get failed")
	}

	ds, err := s.loadDataset(ctx, p.WindowDays, 0)
	if err != nil {
		return nil, err
	}
	suggestions, unassigned, err := s.engine.Redistribution(ds, p)
	if err != nil {
		return nil, err
	}
	s.recordUnassigned(unassigned)

	if err := s.cache.SetRedistribution(ctx, p, &cache.CachedRedistribution{Suggestions: suggestions, Unassigned: unassigned}); err != nil {
		log.Warn().Err(err).Msg("redistribution: cache set failed")
	}
	return &RedistributionReport{Suggestions: suggestions, Unassigned: unassigned}, nil
}

func (s *ReportService) Movement(ctx context.Context, windowDays int) (*MovementReport, error) {
	if windowDays == 0 {
		windowDays = s.cfg.WindowDays
	}
	if err := engine.ValidateWindowDays(windowDays); err != nil {
		return nil, err
	}
	ds, err := s.loadDataset(ctx, windowDays, 0)
	if err != nil {
		return nil, err
	}
	rows, summary, unassigned, err := s.engine.Movement(ds)
	if err != nil {
		return nil, err
	}
	s.recordUnassigned(unassigned)
	return &MovementReport{Rows: rows, Summary: summary, Unassigned: unassigned}, nil
}

func (s *ReportService) Shortages(ctx context.Context, windowDays int) (*ShortageReport, error) {
	if windowDays == 0 {
		windowDays = s.cfg.WindowDays
	}
	if err := engine.ValidateWindowDays(windowDays); err != nil {
		return nil, err
	}
	ds, err := s.loadDataset(ctx, windowDays, 0)
	if err != nil {
		return nil, err
	}
	rows, unassigned, err := s.engine.Shortages(ds)
	if err != nil {
		return nil, err
	}
	s.recordUnassigned(unassigned)
	return &ShortageReport{Rows: rows, Unassigned: unassigned}, nil
}

func (s *ReportService) ProductInquiry(ctx context.Context, code string) (*domain.ProductInquiry, error) {
	stores, err := s.configs.Stores(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.facts.Positions(ctx)
	if err != nil {
		return nil, err
	}
	warehouse, err := s.facts.WarehouseStock(ctx)
	if err != nil {
		return nil, err
	}
	ds := engine.InquiryDataset{
		Stores:    stores,
		Positions: positions,
		Warehouse: warehouse,
	}
	for _, window := range []struct {
		days int
		dest *[]domain.StoreSales
	}{
		{30, &ds.Sales30},
		{60, &ds.Sales60},
		{90, &ds.Sales90},
	} {
		sales, err := s.facts.SalesWindow(ctx, window.days)
		if err != nil {
			return nil, err
		}
		*window.dest = sales
	}
	return s.engine.Inquiry(ds, code)
}

// ExportReplenishment computes the report and uploads it as CSV to the
// shared bucket, returning the object key.
func (s *ReportService) ExportReplenishment(ctx context.Context, p domain.ReplenishmentParams) (string, error) {
	if s.exporter == nil {
		return "", fmt.Errorf("%w: export storage not configured", domain.ErrConfigurationMissing)
	}
	report, err := s.Replenishment(ctx, p)
	if err != nil {
		return "", err
	}
	payload, err := export.ReplenishmentCSV(report.Rows)
	if err != nil {
		return "", err
	}
	key := export.ObjectKey("replenishment", time.Now())
	if err := s.exporter.UploadObject(ctx, key, "text/csv", payload); err != nil {
		return "", err
	}
	log.Info().Str("key", key).Int("rows", len(report.Rows)).Msg("replenishment report exported")
	return key, nil
}

// InvalidateCache drops all cached reports, for use after a data load.
func (s *ReportService) InvalidateCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

func (s *ReportService) loadDataset(ctx context.Context, windowDays, expansionWindowDays int) (engine.Dataset, error) {
	var ds engine.Dataset
	var err error

	if ds.Stores, err = s.configs.Stores(ctx); err != nil {
		return ds, err
	}
	if ds.Minimums, err = s.configs.Minimums(ctx); err != nil {
		return ds, err
	}
	if ds.FixedReferences, err = s.configs.FixedReferences(ctx); err != nil {
		return ds, err
	}
	if ds.MultiBrands, err = s.configs.MultiBrands(ctx); err != nil {
		return ds, err
	}
	if ds.ExcludedCodes, err = s.configs.ExcludedCodes(ctx); err != nil {
		return ds, err
	}
	if ds.Positions, err = s.facts.Positions(ctx); err != nil {
		return ds, err
	}
	if ds.Warehouse, err = s.facts.WarehouseStock(ctx); err != nil {
		return ds, err
	}
	if ds.WindowSales, err = s.facts.SalesWindow(ctx, windowDays); err != nil {
		return ds, err
	}
	if expansionWindowDays > 0 {
		if ds.ExpansionSales, err = s.facts.SalesWindow(ctx, expansionWindowDays); err != nil {
			return ds, err
		}
	}
	return ds, nil
}

func (s *ReportService) recordUnassigned(names []string) {
	if len(names) == 0 {
		return
	}
	path, err := export.WriteUnassignedStores(s.cfg.DiagnosticsDir, names)
	if err != nil {
		log.Warn().Err(err).Msg("failed to write unassigned stores diagnostic")
		return
	}
	log.Warn().Int("stores", len(names)).Str("path", path).Msg("stores without region mapping")
}
