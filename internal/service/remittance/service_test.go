package remittance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/folhacerta/folha-backend-go/internal/config"
	"github.com/folhacerta/folha-backend-go/internal/domain/payroll"
	"github.com/folhacerta/folha-backend-go/internal/domain/period"
	"github.com/folhacerta/folha-backend-go/internal/domain/remittance"
	"github.com/folhacerta/folha-backend-go/internal/pkg/cnab400"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "0190d5a0-0000-7000-8000-000000000001"

func authedContext(t *testing.T) context.Context {
	t.Helper()
	token := jwt.New()
	require.NoError(t, token.Set("company_id", testCompanyID))
	require.NoError(t, token.Set("user_id", "0190d5a0-0000-7000-8000-000000000002"))
	require.NoError(t, token.Set("type", "access"))
	return jwtauth.NewContext(context.Background(), token, nil)
}

type stubPeriodRepo struct {
	status period.Status
}

func (r *stubPeriodRepo) Get(ctx context.Context, companyID string, month, year int) (period.PayrollPeriod, error) {
	return period.PayrollPeriod{
		CompanyID: companyID,
		Month:     month,
		Year:      year,
		Status:    r.status,
	}, nil
}

func (r *stubPeriodRepo) LockForTransition(ctx context.Context, companyID string, month, year int) (period.PayrollPeriod, error) {
	return period.PayrollPeriod{}, errors.New("not used")
}

func (r *stubPeriodRepo) SetStatus(ctx context.Context, companyID string, month, year int, status period.Status, actorID string, at time.Time) error {
	return errors.New("not used")
}

func (r *stubPeriodRepo) AppendReopenEvent(ctx context.Context, event period.ReopenEvent) error {
	return errors.New("not used")
}

func (r *stubPeriodRepo) ListReopenEvents(ctx context.Context, companyID string, month, year int) ([]period.ReopenEvent, error) {
	return nil, nil
}

func (r *stubPeriodRepo) CountReopenEvents(ctx context.Context, companyID string, month, year int) (int, error) {
	return 0, nil
}

type stubEntryRepo struct {
	entries     []payroll.Entry
	companies   []string
	costCenters []string
}

func (r *stubEntryRepo) ListApprovedEntries(ctx context.Context, companyID string, month, year int, companyCode, costCenter *string) ([]payroll.Entry, error) {
	var out []payroll.Entry
	for _, e := range r.entries {
		if companyCode != nil && e.CompanyCode != *companyCode {
			continue
		}
		if costCenter != nil && (e.CostCenter == nil || *e.CostCenter != *costCenter) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *stubEntryRepo) CountApprovedEntries(ctx context.Context, companyID string, month, year int) (int, error) {
	return len(r.entries), nil
}

func (r *stubEntryRepo) CompanyCodes(ctx context.Context, companyID string) ([]string, error) {
	return r.companies, nil
}

func (r *stubEntryRepo) CostCenters(ctx context.Context, companyID string) ([]string, error) {
	return r.costCenters, nil
}

type stubSequenceRepo struct {
	next int
}

func (r *stubSequenceRepo) Allocate(ctx context.Context, companyID string, month, year int) (int, error) {
	r.next++
	return r.next, nil
}

type stubRenderer struct {
	lastHTML string
	err      error
}

func (r *stubRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.lastHTML = html
	return []byte("%PDF-1.7 stub"), nil
}

func netAmount(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func testEntries(t *testing.T) []payroll.Entry {
	t.Helper()
	refDate := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	adm := "ADM"
	ops := "OPS"
	return []payroll.Entry{
		{
			ID:            "pe-2",
			EmployeeID:    "emp-2",
			EmployeeName:  "BRUNO HENRIQUE DIAS",
			CompanyCode:   "001",
			CostCenter:    &ops,
			NetAmount:     netAmount(t, "2750.50"),
			ReferenceDate: refDate,
			BankCode:      "341",
			BankAgency:    "1234",
			AgencyDigit:   "5",
			BankAccount:   "222222",
			AccountDigit:  "1",
		},
		{
			ID:            "pe-1",
			EmployeeID:    "emp-1",
			EmployeeName:  "ANA BEATRIZ CAMPOS",
			CompanyCode:   "001",
			CostCenter:    &adm,
			NetAmount:     netAmount(t, "1500.00"),
			ReferenceDate: refDate,
			BankCode:      "341",
			BankAgency:    "1234",
			AgencyDigit:   "5",
			BankAccount:   "111111",
			AccountDigit:  "9",
		},
		{
			ID:            "pe-3",
			EmployeeID:    "emp-3",
			EmployeeName:  "CARLA MENDES",
			CompanyCode:   "002",
			CostCenter:    nil,
			NetAmount:     netAmount(t, "999.99"),
			ReferenceDate: refDate,
			BankCode:      "341",
			BankAgency:    "5678",
			AgencyDigit:   "",
			BankAccount:   "333333",
			AccountDigit:  "7",
		},
	}
}

type testDeps struct {
	periodRepo   *stubPeriodRepo
	entryRepo    *stubEntryRepo
	sequenceRepo *stubSequenceRepo
	renderer     *stubRenderer
}

func newTestService(t *testing.T, deps testDeps) *RemittanceServiceImpl {
	t.Helper()
	if deps.periodRepo == nil {
		deps.periodRepo = &stubPeriodRepo{status: period.StatusFinalized}
	}
	if deps.entryRepo == nil {
		deps.entryRepo = &stubEntryRepo{
			entries:     testEntries(t),
			companies:   []string{"001", "002"},
			costCenters: []string{"ADM", "OPS"},
		}
	}
	if deps.sequenceRepo == nil {
		deps.sequenceRepo = &stubSequenceRepo{}
	}
	if deps.renderer == nil {
		deps.renderer = &stubRenderer{}
	}
	bank := config.BankConfig{
		Code:            "341",
		CompanyName:     "FOLHA CERTA SERVICOS LTDA",
		CompanyDocument: "12345678000190",
	}
	svc := NewRemittanceService(deps.periodRepo, deps.entryRepo, deps.sequenceRepo, cnab400.NewItauEncoder(), deps.renderer, bank)
	impl := svc.(*RemittanceServiceImpl)
	impl.WithNow(func() time.Time {
		return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	})
	return impl
}

func TestRemittanceService_ListRecords_OrderedByName(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{})

	resp, err := svc.ListRecords(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	require.Len(t, resp.Records, 3)
	assert.Equal(t, "ANA BEATRIZ CAMPOS", resp.Records[0].EmployeeName)
	assert.Equal(t, "BRUNO HENRIQUE DIAS", resp.Records[1].EmployeeName)
	assert.Equal(t, "CARLA MENDES", resp.Records[2].EmployeeName)
	assert.Equal(t, int64(525049), resp.TotalCents)
	assert.Equal(t, "1.500,00", resp.Records[0].AmountDisplay)
}

func TestRemittanceService_ListRecords_PeriodNotFinalized(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{periodRepo: &stubPeriodRepo{status: period.StatusOpen}})

	_, err := svc.ListRecords(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, remittance.ErrPeriodNotFinalized)
}

func TestRemittanceService_ListRecords_FilterByCompany(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{})
	company := "002"

	resp, err := svc.ListRecords(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026, CompanyCode: &company})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "CARLA MENDES", resp.Records[0].EmployeeName)
	assert.Equal(t, int64(99999), resp.TotalCents)
}

func TestRemittanceService_ListRecords_UnknownFilters(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{})

	company := "999"
	_, err := svc.ListRecords(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026, CompanyCode: &company})
	assert.ErrorIs(t, err, remittance.ErrUnknownCompany)

	costCenter := "NOPE"
	_, err = svc.ListRecords(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026, CostCenter: &costCenter})
	assert.ErrorIs(t, err, remittance.ErrUnknownCostCenter)
}

func TestRemittanceService_ValidateBankData(t *testing.T) {
	t.Parallel()
	entries := testEntries(t)
	entries[2].BankAccount = ""
	entries[2].BankCode = ""
	svc := newTestService(t, testDeps{entryRepo: &stubEntryRepo{
		entries:   entries,
		companies: []string{"001", "002"},
	}})

	resp, err := svc.ValidateBankData(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Missing, 1)
	assert.Equal(t, "CARLA MENDES", resp.Missing[0].EmployeeName)
	assert.ElementsMatch(t, []string{"bank_code", "account"}, resp.Missing[0].Fields)
}

func TestRemittanceService_GenerateCNAB400(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{})

	filename, file, err := svc.GenerateCNAB400(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, "CNAB400-03-2026.REM", filename)

	decoded, err := cnab400.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.RemessaSequence)
	assert.Equal(t, 5, decoded.RecordCount)
	assert.Equal(t, int64(525049), decoded.TotalCents)
	require.Len(t, decoded.Details, 3)
	assert.Equal(t, "ANA BEATRIZ CAMPOS", decoded.Details[0].Beneficiary)
}

func TestRemittanceService_GenerateCNAB400_SequenceAdvances(t *testing.T) {
	t.Parallel()
	seq := &stubSequenceRepo{}
	svc := newTestService(t, testDeps{sequenceRepo: seq})
	ctx := authedContext(t)
	req := remittance.GenerateRequest{Month: 3, Year: 2026}

	_, first, err := svc.GenerateCNAB400(ctx, req)
	require.NoError(t, err)
	_, second, err := svc.GenerateCNAB400(ctx, req)
	require.NoError(t, err)

	firstDecoded, err := cnab400.Decode(first)
	require.NoError(t, err)
	secondDecoded, err := cnab400.Decode(second)
	require.NoError(t, err)
	assert.Equal(t, 1, firstDecoded.RemessaSequence)
	assert.Equal(t, 2, secondDecoded.RemessaSequence)
}

func TestRemittanceService_GenerateCNAB400_MissingBankData(t *testing.T) {
	t.Parallel()
	entries := testEntries(t)
	entries[1].BankAgency = ""
	seq := &stubSequenceRepo{}
	svc := newTestService(t, testDeps{
		entryRepo: &stubEntryRepo{
			entries:   entries,
			companies: []string{"001", "002"},
		},
		sequenceRepo: seq,
	})

	_, _, err := svc.GenerateCNAB400(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	var missing *remittance.MissingBankDataError
	require.ErrorAs(t, err, &missing)
	require.Len(t, missing.Employees, 1)
	assert.Equal(t, "ANA BEATRIZ CAMPOS", missing.Employees[0].EmployeeName)
	assert.Equal(t, []string{"agency"}, missing.Employees[0].Fields)
	assert.Zero(t, seq.next, "validation failure must not consume a sequence number")
}

func TestRemittanceService_GenerateCNAB400_Empty(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{entryRepo: &stubEntryRepo{}})

	_, _, err := svc.GenerateCNAB400(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, remittance.ErrEmptyRemittance)
}

func TestRemittanceService_GenerateBordero(t *testing.T) {
	t.Parallel()
	renderer := &stubRenderer{}
	svc := newTestService(t, testDeps{renderer: renderer})

	filename, pdf, err := svc.GenerateBordero(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, "BORDERO-03-2026.pdf", filename)
	assert.NotEmpty(t, pdf)

	assert.Contains(t, renderer.lastHTML, "ANA BEATRIZ CAMPOS")
	assert.Contains(t, renderer.lastHTML, "5.250,49")
	assert.Contains(t, renderer.lastHTML, "03/2026")
}

func TestRemittanceService_GenerateBordero_ToleratesMissingBankData(t *testing.T) {
	t.Parallel()
	entries := testEntries(t)
	entries[2].BankAccount = ""
	renderer := &stubRenderer{}
	svc := newTestService(t, testDeps{
		entryRepo: &stubEntryRepo{
			entries:   entries,
			companies: []string{"001", "002"},
		},
		renderer: renderer,
	})

	// The manifest is a conference document; incomplete accounts block
	// the bank file but not the borderô.
	_, _, err := svc.GenerateBordero(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Contains(t, renderer.lastHTML, "CARLA MENDES")
}

func TestRemittanceService_GenerateBordero_RendererDown(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{renderer: &stubRenderer{err: errors.New("connection refused")}})

	_, _, err := svc.GenerateBordero(authedContext(t), remittance.GenerateRequest{Month: 3, Year: 2026})
	assert.ErrorIs(t, err, remittance.ErrRendererUnavailable)
}

func TestBuildManifest(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{})
	records, err := svc.aggregate(authedContext(t), testCompanyID, remittance.GenerateRequest{Month: 3, Year: 2026})
	require.NoError(t, err)

	manifest, err := BuildManifest(records, remittance.GenerateRequest{Month: 3, Year: 2026}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "03/2026", manifest.PeriodLabel)
	require.Len(t, manifest.Lines, 3)
	assert.Equal(t, "ADM", manifest.Lines[0].CostCenter)
	assert.Equal(t, "", manifest.Lines[2].CostCenter)
	assert.Equal(t, int64(525049), int64(manifest.TotalCents))
	assert.Equal(t, "5.250,49", manifest.TotalDisplay)

	_, err = BuildManifest(nil, remittance.GenerateRequest{Month: 3, Year: 2026}, time.Now())
	assert.ErrorIs(t, err, remittance.ErrEmptyRemittance)
}

func TestRemittanceService_MissingClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testDeps{})

	_, err := svc.ListRecords(context.Background(), remittance.GenerateRequest{Month: 3, Year: 2026})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "company_id"))
}
