package service

import (
	"context"
	"fmt"
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/repository"
)

type dashboardService struct {
	editions repository.EditionRepo
	insumos  repository.InsumoRepo
}

func NewDashboardService(editions repository.EditionRepo, insumos repository.InsumoRepo) DashboardService {
	return &dashboardService{editions: editions, insumos: insumos}
}

func (s *dashboardService) EditionStats(ctx context.Context, editionID string, today time.Time) (*EditionStats, error) {
	edition, err := s.editions.GetByID(ctx, editionID)
	if err != nil {
		return nil, err
	}
	return s.statsFor(ctx, edition, today)
}

func (s *dashboardService) ProductOverview(ctx context.Context, productID string, today time.Time) ([]*EditionStats, error) {
	editions, err := s.editions.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	overview := make([]*EditionStats, 0, len(editions))
	for _, e := range editions {
		stats, err := s.statsFor(ctx, e, today)
		if err != nil {
			return nil, fmt.Errorf("stats for edition %d/%d: %w", e.Month, e.Year, err)
		}
		overview = append(overview, stats)
	}
	return overview, nil
}

func (s *dashboardService) statsFor(ctx context.Context, edition *domain.Edition, today time.Time) (*EditionStats, error) {
	counts, err := s.insumos.CountByStatus(ctx, edition.ID)
	if err != nil {
		return nil, fmt.Errorf("counting by status: %w", err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	insumos, err := s.insumos.ListByEdition(ctx, edition.ID)
	if err != nil {
		return nil, fmt.Errorf("listing insumos: %w", err)
	}
	delayed := 0
	for _, i := range insumos {
		if i.IsDelayed(today) {
			delayed++
		}
	}

	approved := counts[domain.StatusApproved]
	return &EditionStats{
		EditionID:     edition.ID,
		ProductID:     edition.ProductID,
		Year:          edition.Year,
		Month:         edition.Month,
		Phase:         edition.Phase,
		Total:         total,
		Approved:      approved,
		Pending:       total - approved,
		Delayed:       delayed,
		CompletionPct: domain.CompletionPct(insumos),
	}, nil
}
