package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/folhacerta/folha-backend-go/internal/domain/period"
	"github.com/folhacerta/folha-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgLockNotAvailable is raised by FOR UPDATE NOWAIT when another
// transaction holds the row.
const pgLockNotAvailable = "55P03"

type periodRepository struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) period.Repository {
	return &periodRepository{db: db}
}

func (r *periodRepository) Get(ctx context.Context, companyID string, month, year int) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, month, year, status, finalized_at, finalized_by, created_at, updated_at
		FROM payroll_periods
		WHERE company_id = $1 AND month = $2 AND year = $3
	`

	var p period.PayrollPeriod
	err := q.QueryRow(ctx, query, companyID, month, year).Scan(
		&p.ID, &p.CompanyID, &p.Month, &p.Year, &p.Status,
		&p.FinalizedAt, &p.FinalizedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Periods exist implicitly: a key nobody touched is OPEN.
			return period.PayrollPeriod{
				CompanyID: companyID,
				Month:     month,
				Year:      year,
				Status:    period.StatusOpen,
			}, nil
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *periodRepository) LockForTransition(ctx context.Context, companyID string, month, year int) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	// Materialize the implicit row first so there is something to lock.
	insert := `
		INSERT INTO payroll_periods (id, company_id, month, year, status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, 'OPEN', NOW(), NOW())
		ON CONFLICT (company_id, month, year) DO NOTHING
	`
	if _, err := q.Exec(ctx, insert, companyID, month, year); err != nil {
		return period.PayrollPeriod{}, fmt.Errorf("failed to ensure payroll period row: %w", err)
	}

	query := `
		SELECT id, company_id, month, year, status, finalized_at, finalized_by, created_at, updated_at
		FROM payroll_periods
		WHERE company_id = $1 AND month = $2 AND year = $3
		FOR UPDATE NOWAIT
	`

	var p period.PayrollPeriod
	err := q.QueryRow(ctx, query, companyID, month, year).Scan(
		&p.ID, &p.CompanyID, &p.Month, &p.Year, &p.Status,
		&p.FinalizedAt, &p.FinalizedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return period.PayrollPeriod{}, period.ErrPeriodLocked
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to lock payroll period: %w", err)
	}

	return p, nil
}

func (r *periodRepository) SetStatus(ctx context.Context, companyID string, month, year int, status period.Status, actorID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	var query string
	var err error
	if status == period.StatusFinalized {
		query = `
			UPDATE payroll_periods
			SET status = $4, finalized_at = $5, finalized_by = $6, updated_at = NOW()
			WHERE company_id = $1 AND month = $2 AND year = $3
		`
		_, err = q.Exec(ctx, query, companyID, month, year, status, at, actorID)
	} else {
		query = `
			UPDATE payroll_periods
			SET status = $4, finalized_at = NULL, finalized_by = NULL, updated_at = NOW()
			WHERE company_id = $1 AND month = $2 AND year = $3
		`
		_, err = q.Exec(ctx, query, companyID, month, year, status)
	}
	if err != nil {
		return fmt.Errorf("failed to set payroll period status: %w", err)
	}

	return nil
}

func (r *periodRepository) AppendReopenEvent(ctx context.Context, event period.ReopenEvent) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO period_reopen_events (id, company_id, month, year, reopened_at, reopened_by, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		event.ID, event.CompanyID, event.Month, event.Year,
		event.ReopenedAt, event.ReopenedBy, event.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to append reopen event: %w", err)
	}

	return nil
}

func (r *periodRepository) ListReopenEvents(ctx context.Context, companyID string, month, year int) ([]period.ReopenEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, month, year, reopened_at, reopened_by, reason
		FROM period_reopen_events
		WHERE company_id = $1 AND month = $2 AND year = $3
		ORDER BY reopened_at ASC
	`

	rows, err := q.Query(ctx, query, companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list reopen events: %w", err)
	}
	defer rows.Close()

	var events []period.ReopenEvent
	for rows.Next() {
		var e period.ReopenEvent
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Month, &e.Year, &e.ReopenedAt, &e.ReopenedBy, &e.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan reopen event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reopen events: %w", err)
	}

	return events, nil
}

func (r *periodRepository) CountReopenEvents(ctx context.Context, companyID string, month, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM period_reopen_events
		WHERE company_id = $1 AND month = $2 AND year = $3
	`

	var count int
	if err := q.QueryRow(ctx, query, companyID, month, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reopen events: %w", err)
	}

	return count, nil
}
