package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/repository"
)

// ErrAdjustmentReasonRequired is returned when an insumo is moved into
// adjustment_requested without a reason.
var ErrAdjustmentReasonRequired = errors.New("adjustment reason required")

type insumoService struct {
	insumos  repository.InsumoRepo
	uow      db.UnitOfWork
	actorID  string
	clock    func() time.Time
	observer UseCaseObserver
}

// InsumoServiceOption configures an insumo service.
type InsumoServiceOption func(*insumoService)

// WithActor records who performs submissions and reviews. The ID must
// reference an existing user; empty means anonymous.
func WithActor(userID string) InsumoServiceOption {
	return func(s *insumoService) { s.actorID = userID }
}

// WithServiceClock overrides the wall clock, for tests.
func WithServiceClock(clock func() time.Time) InsumoServiceOption {
	return func(s *insumoService) { s.clock = clock }
}

// WithObserver attaches a use-case observer.
func WithObserver(obs UseCaseObserver) InsumoServiceOption {
	return func(s *insumoService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

func NewInsumoService(insumos repository.InsumoRepo, uow db.UnitOfWork, opts ...InsumoServiceOption) InsumoService {
	s := &insumoService{
		insumos:  insumos,
		uow:      uow,
		clock:    func() time.Time { return time.Now().UTC() },
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *insumoService) FetchInsumos(ctx context.Context, editionID string) ([]*domain.Insumo, error) {
	return s.insumos.ListByEdition(ctx, editionID)
}

func (s *insumoService) GetByID(ctx context.Context, id string) (*domain.Insumo, error) {
	return s.insumos.GetByID(ctx, id)
}

// UpdateInsumoStatus moves an insumo to a new workflow stage, stamping
// submission and review metadata as the stage dictates, and bumps the
// version. The stored row after the move is returned.
func (s *insumoService) UpdateInsumoStatus(ctx context.Context, id string, status domain.InsumoStatus, adjustmentReason string) (insumo *domain.Insumo, err error) {
	startedAt := s.clock()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "move-insumo",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"insumo_id": id, "status": string(status)},
		})
	}()

	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	if status == domain.StatusAdjustmentRequested && strings.TrimSpace(adjustmentReason) == "" {
		return nil, ErrAdjustmentReasonRequired
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInsumos := repository.NewSQLiteInsumoRepo(tx)
		i, err := txInsumos.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.clock()
		if status == domain.StatusSubmitted && i.Status != domain.StatusSubmitted {
			i.SubmittedAt = &now
			i.SubmittedBy = s.actorID
		}
		switch status {
		case domain.StatusApproved, domain.StatusAdjustmentRequested:
			i.ReviewedAt = &now
			i.ReviewedBy = s.actorID
		}
		if status == domain.StatusAdjustmentRequested {
			i.AdjustmentReason = adjustmentReason
		}
		i.Status = status
		i.Version++

		if err := txInsumos.Update(ctx, i); err != nil {
			return fmt.Errorf("updating insumo status: %w", err)
		}
		insumo = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return insumo, nil
}

// UpdateInsumoDate reschedules an insumo. The stored value keeps day
// granularity only.
func (s *insumoService) UpdateInsumoDate(ctx context.Context, id string, due time.Time) (*domain.Insumo, error) {
	var insumo *domain.Insumo
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInsumos := repository.NewSQLiteInsumoRepo(tx)
		i, err := txInsumos.GetByID(ctx, id)
		if err != nil {
			return err
		}
		day := due.UTC().Truncate(24 * time.Hour)
		i.DueDate = &day
		i.Version++
		if err := txInsumos.Update(ctx, i); err != nil {
			return fmt.Errorf("updating insumo due date: %w", err)
		}
		insumo = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return insumo, nil
}

// UpdateInsumoContent sets content and notes. A nil pointer leaves the
// corresponding field unchanged.
func (s *insumoService) UpdateInsumoContent(ctx context.Context, id string, content, notes *string) (*domain.Insumo, error) {
	var insumo *domain.Insumo
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInsumos := repository.NewSQLiteInsumoRepo(tx)
		i, err := txInsumos.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if content != nil {
			i.Content = *content
		}
		if notes != nil {
			i.Notes = *notes
		}
		i.Version++
		if err := txInsumos.Update(ctx, i); err != nil {
			return fmt.Errorf("updating insumo content: %w", err)
		}
		insumo = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return insumo, nil
}

func (s *insumoService) AddAttachment(ctx context.Context, a *domain.Attachment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Kind == "" {
		a.Kind = attachmentKindFor(a.Filename)
	}
	a.CreatedAt = s.clock()
	return s.insumos.AddAttachment(ctx, a)
}

func (s *insumoService) DeleteAttachment(ctx context.Context, attachmentID string) error {
	return s.insumos.DeleteAttachment(ctx, attachmentID)
}

func (s *insumoService) SetTags(ctx context.Context, insumoID string, tagIDs []string) error {
	return s.insumos.SetTags(ctx, insumoID, tagIDs)
}

func (s *insumoService) SetResponsibles(ctx context.Context, insumoID string, userIDs []string) error {
	return s.insumos.SetResponsibles(ctx, insumoID, userIDs)
}

func attachmentKindFor(filename string) domain.AttachmentKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return domain.AttachmentImage
	case ".pdf":
		return domain.AttachmentPDF
	default:
		return domain.AttachmentOther
	}
}
