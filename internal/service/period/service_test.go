package period

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/folhacerta/folha-backend-go/internal/domain/payroll"
	"github.com/folhacerta/folha-backend-go/internal/domain/period"
	"github.com/folhacerta/folha-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "0190d5a0-0000-7000-8000-000000000001"
	testUserID    = "0190d5a0-0000-7000-8000-000000000002"
)

func authedContext(t *testing.T) context.Context {
	t.Helper()
	token := jwt.New()
	require.NoError(t, token.Set("company_id", testCompanyID))
	require.NoError(t, token.Set("user_id", testUserID))
	require.NoError(t, token.Set("type", "access"))
	return jwtauth.NewContext(context.Background(), token, nil)
}

// periodStore is an in-memory stand-in for the period tables. Its row
// lock uses TryLock so a concurrent transition fails fast, matching the
// FOR UPDATE NOWAIT behavior of the real repository.
type periodStore struct {
	mu      sync.Mutex
	rowLock sync.Mutex
	periods map[string]period.PayrollPeriod
	events  []period.ReopenEvent
	entries int
}

func newPeriodStore(entries int) *periodStore {
	return &periodStore{
		periods: make(map[string]period.PayrollPeriod),
		entries: entries,
	}
}

func (s *periodStore) key(companyID string, month, year int) string {
	return companyID + "|" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// fakeTx releases the row lock on commit or rollback, but only when
// its own transaction acquired it.
type fakeTx struct {
	pgx.Tx
	store    *periodStore
	acquired bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.acquired {
		t.acquired = false
		t.store.rowLock.Unlock()
	}
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	return t.Commit(ctx)
}

type fakeDB struct {
	store *periodStore
}

func (d *fakeDB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{store: d.store}, nil
}

type fakePeriodRepo struct {
	store *periodStore
}

func (r *fakePeriodRepo) Get(ctx context.Context, companyID string, month, year int) (period.PayrollPeriod, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.periods[r.store.key(companyID, month, year)]
	if !ok {
		return period.PayrollPeriod{
			CompanyID: companyID,
			Month:     month,
			Year:      year,
			Status:    period.StatusOpen,
		}, nil
	}
	return p, nil
}

func (r *fakePeriodRepo) LockForTransition(ctx context.Context, companyID string, month, year int) (period.PayrollPeriod, error) {
	if !r.store.rowLock.TryLock() {
		return period.PayrollPeriod{}, period.ErrPeriodLocked
	}
	if tx, ok := postgresql.TxFromContext(ctx); ok {
		tx.(*fakeTx).acquired = true
	}
	r.store.mu.Lock()
	p, ok := r.store.periods[r.store.key(companyID, month, year)]
	if !ok {
		p = period.PayrollPeriod{
			CompanyID: companyID,
			Month:     month,
			Year:      year,
			Status:    period.StatusOpen,
		}
		r.store.periods[r.store.key(companyID, month, year)] = p
	}
	r.store.mu.Unlock()
	return p, nil
}

func (r *fakePeriodRepo) SetStatus(ctx context.Context, companyID string, month, year int, status period.Status, actorID string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p := r.store.periods[r.store.key(companyID, month, year)]
	p.CompanyID = companyID
	p.Month = month
	p.Year = year
	p.Status = status
	if status == period.StatusFinalized {
		finalizedAt := at
		actor := actorID
		p.FinalizedAt = &finalizedAt
		p.FinalizedBy = &actor
	} else {
		p.FinalizedAt = nil
		p.FinalizedBy = nil
	}
	r.store.periods[r.store.key(companyID, month, year)] = p
	return nil
}

func (r *fakePeriodRepo) AppendReopenEvent(ctx context.Context, event period.ReopenEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events = append(r.store.events, event)
	return nil
}

func (r *fakePeriodRepo) ListReopenEvents(ctx context.Context, companyID string, month, year int) ([]period.ReopenEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []period.ReopenEvent
	for _, e := range r.store.events {
		if e.CompanyID == companyID && e.Month == month && e.Year == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakePeriodRepo) CountReopenEvents(ctx context.Context, companyID string, month, year int) (int, error) {
	events, _ := r.ListReopenEvents(ctx, companyID, month, year)
	return len(events), nil
}

type fakeEntryRepo struct {
	store *periodStore
}

func (r *fakeEntryRepo) ListApprovedEntries(ctx context.Context, companyID string, month, year int, companyCode, costCenter *string) ([]payroll.Entry, error) {
	return nil, nil
}

func (r *fakeEntryRepo) CountApprovedEntries(ctx context.Context, companyID string, month, year int) (int, error) {
	return r.store.entries, nil
}

func (r *fakeEntryRepo) CompanyCodes(ctx context.Context, companyID string) ([]string, error) {
	return nil, nil
}

func (r *fakeEntryRepo) CostCenters(ctx context.Context, companyID string) ([]string, error) {
	return nil, nil
}

func newTestService(store *periodStore) *PeriodServiceImpl {
	svc := NewPeriodService(&fakeDB{store: store}, &fakePeriodRepo{store: store}, &fakeEntryRepo{store: store})
	impl := svc.(*PeriodServiceImpl)
	impl.WithNow(func() time.Time {
		return time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	})
	return impl
}

func TestPeriodService_GetStatus_ImplicitOpen(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))

	status, err := svc.GetStatus(authedContext(t), 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, period.StatusOpen, status.Status)
	assert.Nil(t, status.FinalizedAt)
	assert.Zero(t, status.ReopenCount)
}

func TestPeriodService_Finalize_Success(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))

	status, err := svc.Finalize(authedContext(t), period.FinalizeRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, period.StatusFinalized, status.Status)
	require.NotNil(t, status.FinalizedAt)
	require.NotNil(t, status.FinalizedBy)
	assert.Equal(t, testUserID, *status.FinalizedBy)
}

func TestPeriodService_Finalize_AlreadyFinalized(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))
	ctx := authedContext(t)

	_, err := svc.Finalize(ctx, period.FinalizeRequest{Month: 3, Year: 2026})
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, period.FinalizeRequest{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, period.ErrAlreadyFinalized)
}

func TestPeriodService_Finalize_NoPayrollData(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(0))

	_, err := svc.Finalize(authedContext(t), period.FinalizeRequest{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, period.ErrNoPayrollData)
}

func TestPeriodService_Finalize_InvalidPeriod(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))

	_, err := svc.Finalize(authedContext(t), period.FinalizeRequest{Month: 13, Year: 2026})
	require.Error(t, err)

	_, err = svc.Finalize(authedContext(t), period.FinalizeRequest{Month: 1, Year: 1999})
	require.Error(t, err)
}

func TestPeriodService_Finalize_MissingClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))

	_, err := svc.Finalize(context.Background(), period.FinalizeRequest{Month: 3, Year: 2026})
	require.Error(t, err)
}

func TestPeriodService_Reopen_Success(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))
	ctx := authedContext(t)

	_, err := svc.Finalize(ctx, period.FinalizeRequest{Month: 3, Year: 2026})
	require.NoError(t, err)

	reason := "correcao de descontos"
	status, err := svc.Reopen(ctx, period.ReopenRequest{Month: 3, Year: 2026, Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, period.StatusOpen, status.Status)
	assert.Nil(t, status.FinalizedAt)
	assert.Equal(t, 1, status.ReopenCount)

	history, err := svc.ReopenHistory(ctx, 3, 2026)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, testUserID, history[0].ReopenedBy)
	require.NotNil(t, history[0].Reason)
	assert.Equal(t, reason, *history[0].Reason)
}

func TestPeriodService_Reopen_NotFinalized(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))

	_, err := svc.Reopen(authedContext(t), period.ReopenRequest{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, period.ErrNotFinalized)
}

func TestPeriodService_FinalizeReopenCycle(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))
	ctx := authedContext(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Finalize(ctx, period.FinalizeRequest{Month: 3, Year: 2026})
		require.NoError(t, err)
		_, err = svc.Reopen(ctx, period.ReopenRequest{Month: 3, Year: 2026})
		require.NoError(t, err)
	}

	status, err := svc.GetStatus(ctx, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, period.StatusOpen, status.Status)
	assert.Equal(t, 3, status.ReopenCount)

	history, err := svc.ReopenHistory(ctx, 3, 2026)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestPeriodService_ConcurrentTransitionsConflict(t *testing.T) {
	t.Parallel()
	store := newPeriodStore(3)
	svc := newTestService(store)
	ctx := authedContext(t)

	_, err := svc.Finalize(ctx, period.FinalizeRequest{Month: 3, Year: 2026})
	require.NoError(t, err)

	// Hold the row lock as if another transition were mid-flight, then
	// observe the fail-fast conflict.
	p, err := (&fakePeriodRepo{store: store}).LockForTransition(ctx, testCompanyID, 3, 2026)
	require.NoError(t, err)
	require.Equal(t, period.StatusFinalized, p.Status)

	_, err = svc.Reopen(ctx, period.ReopenRequest{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, period.ErrPeriodLocked)

	store.rowLock.Unlock()

	_, err = svc.Reopen(ctx, period.ReopenRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
}

func TestPeriodService_ConcurrentReopen_OneWins(t *testing.T) {
	t.Parallel()
	svc := newTestService(newPeriodStore(3))
	ctx := authedContext(t)

	_, err := svc.Finalize(ctx, period.FinalizeRequest{Month: 3, Year: 2026})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Reopen(ctx, period.ReopenRequest{Month: 3, Year: 2026})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, period.ErrPeriodLocked), errors.Is(err, period.ErrNotFinalized):
			// Losers either hit the row lock or found the period
			// already reopened.
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one reopen should win")
}
