package period

import (
	"context"
	"fmt"
	"time"

	"github.com/folhacerta/folha-backend-go/internal/domain/payroll"
	"github.com/folhacerta/folha-backend-go/internal/domain/period"
	"github.com/folhacerta/folha-backend-go/internal/pkg/database"
	"github.com/folhacerta/folha-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PeriodServiceImpl is the payroll period state machine. Transitions for
// one (company, month, year) key are mutually exclusive through the row
// lock taken by the repository; different keys never contend.
type PeriodServiceImpl struct {
	db         database.TxBeginner
	periodRepo period.Repository
	entryRepo  payroll.EntryRepository
	now        func() time.Time
}

func NewPeriodService(
	db database.TxBeginner,
	periodRepo period.Repository,
	entryRepo payroll.EntryRepository,
) period.Service {
	return &PeriodServiceImpl{
		db:         db,
		periodRepo: periodRepo,
		entryRepo:  entryRepo,
		now:        time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *PeriodServiceImpl) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func (s *PeriodServiceImpl) GetStatus(ctx context.Context, month, year int) (period.StatusResponse, error) {
	req := period.FinalizeRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return period.StatusResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.StatusResponse{}, err
	}

	p, err := s.periodRepo.Get(ctx, companyID, month, year)
	if err != nil {
		return period.StatusResponse{}, err
	}

	reopenCount, err := s.periodRepo.CountReopenEvents(ctx, companyID, month, year)
	if err != nil {
		return period.StatusResponse{}, err
	}

	return mapToStatusResponse(p, reopenCount), nil
}

func (s *PeriodServiceImpl) Finalize(ctx context.Context, req period.FinalizeRequest) (period.StatusResponse, error) {
	if err := req.Validate(); err != nil {
		return period.StatusResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.StatusResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context, _ pgx.Tx) error {
		p, err := s.periodRepo.LockForTransition(txCtx, companyID, req.Month, req.Year)
		if err != nil {
			return err
		}
		if p.Status == period.StatusFinalized {
			return period.ErrAlreadyFinalized
		}

		entries, err := s.entryRepo.CountApprovedEntries(txCtx, companyID, req.Month, req.Year)
		if err != nil {
			return err
		}
		if entries == 0 {
			return period.ErrNoPayrollData
		}

		return s.periodRepo.SetStatus(txCtx, companyID, req.Month, req.Year, period.StatusFinalized, userID, s.now())
	})
	if err != nil {
		return period.StatusResponse{}, err
	}

	return s.GetStatus(ctx, req.Month, req.Year)
}

func (s *PeriodServiceImpl) Reopen(ctx context.Context, req period.ReopenRequest) (period.StatusResponse, error) {
	if err := req.Validate(); err != nil {
		return period.StatusResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.StatusResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context, _ pgx.Tx) error {
		p, err := s.periodRepo.LockForTransition(txCtx, companyID, req.Month, req.Year)
		if err != nil {
			return err
		}
		if p.Status != period.StatusFinalized {
			return period.ErrNotFinalized
		}

		if err := s.periodRepo.SetStatus(txCtx, companyID, req.Month, req.Year, period.StatusOpen, userID, s.now()); err != nil {
			return err
		}

		return s.periodRepo.AppendReopenEvent(txCtx, period.ReopenEvent{
			ID:         uuid.NewString(),
			CompanyID:  companyID,
			Month:      req.Month,
			Year:       req.Year,
			ReopenedAt: s.now(),
			ReopenedBy: userID,
			Reason:     req.Reason,
		})
	})
	if err != nil {
		return period.StatusResponse{}, err
	}

	return s.GetStatus(ctx, req.Month, req.Year)
}

func (s *PeriodServiceImpl) ReopenHistory(ctx context.Context, month, year int) ([]period.ReopenEventResponse, error) {
	req := period.FinalizeRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.periodRepo.ListReopenEvents(ctx, companyID, month, year)
	if err != nil {
		return nil, err
	}

	responses := make([]period.ReopenEventResponse, len(events))
	for i, e := range events {
		responses[i] = period.ReopenEventResponse{
			ID:         e.ID,
			ReopenedAt: e.ReopenedAt.Format(time.RFC3339),
			ReopenedBy: e.ReopenedBy,
			Reason:     e.Reason,
		}
	}
	return responses, nil
}

func mapToStatusResponse(p period.PayrollPeriod, reopenCount int) period.StatusResponse {
	var finalizedAt *string
	if p.FinalizedAt != nil {
		str := p.FinalizedAt.Format(time.RFC3339)
		finalizedAt = &str
	}

	return period.StatusResponse{
		Month:       p.Month,
		Year:        p.Year,
		Status:      p.Status,
		FinalizedAt: finalizedAt,
		FinalizedBy: p.FinalizedBy,
		ReopenCount: reopenCount,
	}
}
