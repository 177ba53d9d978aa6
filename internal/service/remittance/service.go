package remittance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/folhacerta/folha-backend-go/internal/config"
	"github.com/folhacerta/folha-backend-go/internal/domain/payroll"
	"github.com/folhacerta/folha-backend-go/internal/domain/period"
	"github.com/folhacerta/folha-backend-go/internal/domain/remittance"
	"github.com/folhacerta/folha-backend-go/internal/pkg/money"
	"github.com/folhacerta/folha-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type RemittanceServiceImpl struct {
	periodRepo   period.Repository
	entryRepo    payroll.EntryRepository
	sequenceRepo remittance.SequenceRepository
	encoder      remittance.Encoder
	renderer     remittance.Renderer
	bank         config.BankConfig
	now          func() time.Time
}

func NewRemittanceService(
	periodRepo period.Repository,
	entryRepo payroll.EntryRepository,
	sequenceRepo remittance.SequenceRepository,
	encoder remittance.Encoder,
	renderer remittance.Renderer,
	bank config.BankConfig,
) remittance.Service {
	return &RemittanceServiceImpl{
		periodRepo:   periodRepo,
		entryRepo:    entryRepo,
		sequenceRepo: sequenceRepo,
		encoder:      encoder,
		renderer:     renderer,
		bank:         bank,
		now:          time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *RemittanceServiceImpl) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Helper to get company_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// aggregate builds the ordered payment projection for a finalized
// period. Read-only and idempotent; callers may retry freely.
func (s *RemittanceServiceImpl) aggregate(ctx context.Context, companyID string, req remittance.GenerateRequest) ([]remittance.PaymentRecord, error) {
	p, err := s.periodRepo.Get(ctx, companyID, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	if p.Status != period.StatusFinalized {
		return nil, remittance.ErrPeriodNotFinalized
	}

	if err := s.validateFilter(ctx, companyID, req.Filter()); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListApprovedEntries(ctx, companyID, req.Month, req.Year, req.CompanyCode, req.CostCenter)
	if err != nil {
		return nil, err
	}

	records := make([]remittance.PaymentRecord, 0, len(entries))
	for _, entry := range entries {
		amount, err := money.FromDecimal(entry.NetAmount)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
		}
		if !amount.IsPositive() {
			continue
		}
		records = append(records, remittance.PaymentRecord{
			EmployeeID:   entry.EmployeeID,
			EmployeeName: entry.EmployeeName,
			Amount:       amount,
			Bank: remittance.BankAccount{
				BankCode:     entry.BankCode,
				Agency:       entry.BankAgency,
				AgencyDigit:  entry.AgencyDigit,
				Account:      entry.BankAccount,
				AccountDigit: entry.AccountDigit,
			},
			CompanyCode:   entry.CompanyCode,
			CostCenter:    entry.CostCenter,
			ReferenceDate: entry.ReferenceDate,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].EmployeeName != records[j].EmployeeName {
			return records[i].EmployeeName < records[j].EmployeeName
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})

	return records, nil
}

// validateFilter rejects filter values outside the known enumerations,
// so a typo fails fast instead of silently matching nothing.
func (s *RemittanceServiceImpl) validateFilter(ctx context.Context, companyID string, filter remittance.Filter) error {
	if filter.CompanyCode != nil {
		known, err := s.entryRepo.CompanyCodes(ctx, companyID)
		if err != nil {
			return err
		}
		if !validator.IsInSlice(*filter.CompanyCode, known) {
			return remittance.ErrUnknownCompany
		}
	}
	if filter.CostCenter != nil {
		known, err := s.entryRepo.CostCenters(ctx, companyID)
		if err != nil {
			return err
		}
		if !validator.IsInSlice(*filter.CostCenter, known) {
			return remittance.ErrUnknownCostCenter
		}
	}
	return nil
}

func (s *RemittanceServiceImpl) ListRecords(ctx context.Context, req remittance.GenerateRequest) (remittance.RecordListResponse, error) {
	if err := req.Validate(); err != nil {
		return remittance.RecordListResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return remittance.RecordListResponse{}, err
	}

	records, err := s.aggregate(ctx, companyID, req)
	if err != nil {
		return remittance.RecordListResponse{}, err
	}

	resp := remittance.RecordListResponse{
		Month:   req.Month,
		Year:    req.Year,
		Records: make([]remittance.PaymentRecordResponse, len(records)),
	}
	if req.CompanyCode != nil {
		resp.CompanyCode = *req.CompanyCode
	}
	if req.CostCenter != nil {
		resp.CostCenter = *req.CostCenter
	}

	var total money.Cents
	for i, r := range records {
		resp.Records[i] = mapToRecordResponse(r)
		total = total.Add(r.Amount)
	}
	resp.TotalCents = int64(total)

	return resp, nil
}

func (s *RemittanceServiceImpl) ValidateBankData(ctx context.Context, req remittance.GenerateRequest) (remittance.BankDataValidationResponse, error) {
	if err := req.Validate(); err != nil {
		return remittance.BankDataValidationResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return remittance.BankDataValidationResponse{}, err
	}

	records, err := s.aggregate(ctx, companyID, req)
	if err != nil {
		return remittance.BankDataValidationResponse{}, err
	}

	missing := missingBankData(records)
	return remittance.BankDataValidationResponse{
		Valid:   len(missing) == 0,
		Missing: missing,
	}, nil
}

func (s *RemittanceServiceImpl) GenerateBordero(ctx context.Context, req remittance.GenerateRequest) (string, []byte, error) {
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return "", nil, err
	}

	records, err := s.aggregate(ctx, companyID, req)
	if err != nil {
		return "", nil, err
	}

	manifest, err := BuildManifest(records, req, s.now())
	if err != nil {
		return "", nil, err
	}

	html, err := renderBorderoHTML(manifest, s.bank.CompanyName)
	if err != nil {
		return "", nil, err
	}

	pdf, err := s.renderer.RenderHTML(ctx, html)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", remittance.ErrRendererUnavailable, err)
	}

	filename := fmt.Sprintf("BORDERO-%02d-%04d.pdf", req.Month, req.Year)
	return filename, pdf, nil
}

func (s *RemittanceServiceImpl) GenerateCNAB400(ctx context.Context, req remittance.GenerateRequest) (string, []byte, error) {
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return "", nil, err
	}

	records, err := s.aggregate(ctx, companyID, req)
	if err != nil {
		return "", nil, err
	}
	if len(records) == 0 {
		return "", nil, remittance.ErrEmptyRemittance
	}

	if missing := missingBankData(records); len(missing) > 0 {
		return "", nil, &remittance.MissingBankDataError{Employees: missing}
	}

	// Sequence allocation is the one non-idempotent step. It happens
	// after all validation so failed attempts rarely consume numbers,
	// and it is never retried here: a gap is acceptable, a duplicate
	// remessa number is not.
	seq, err := s.sequenceRepo.Allocate(ctx, companyID, req.Month, req.Year)
	if err != nil {
		return "", nil, err
	}

	file, err := s.encoder.Encode(records, remittance.HeaderInfo{
		BankCode:        s.bank.Code,
		CompanyName:     s.bank.CompanyName,
		CompanyDocument: s.bank.CompanyDocument,
		GeneratedAt:     s.now(),
		Sequence:        seq,
	})
	if err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("CNAB400-%02d-%04d.REM", req.Month, req.Year)
	return filename, file, nil
}

// missingBankData lists every record whose account coordinates are
// incomplete, so the caller sees all offenders at once.
func missingBankData(records []remittance.PaymentRecord) []remittance.MissingBankData {
	var missing []remittance.MissingBankData
	for _, r := range records {
		var fields []string
		if r.Bank.BankCode == "" {
			fields = append(fields, "bank_code")
		}
		if r.Bank.Agency == "" {
			fields = append(fields, "agency")
		}
		if r.Bank.Account == "" {
			fields = append(fields, "account")
		}
		if len(fields) > 0 {
			missing = append(missing, remittance.MissingBankData{
				EmployeeID:   r.EmployeeID,
				EmployeeName: r.EmployeeName,
				Fields:       fields,
			})
		}
	}
	return missing
}

func mapToRecordResponse(r remittance.PaymentRecord) remittance.PaymentRecordResponse {
	return remittance.PaymentRecordResponse{
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		AmountCents:   int64(r.Amount),
		AmountDisplay: r.Amount.Format(),
		BankCode:      r.Bank.BankCode,
		Agency:        r.Bank.Agency,
		AgencyDigit:   r.Bank.AgencyDigit,
		Account:       r.Bank.Account,
		AccountDigit:  r.Bank.AccountDigit,
		CostCenter:    r.CostCenter,
		ReferenceDate: r.ReferenceDate.Format("2006-01-02"),
	}
}
