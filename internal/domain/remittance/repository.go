package remittance

import "context"

// SequenceRepository allocates remessa file sequence numbers. Allocation
// is atomic per (company, month, year) key and survives restarts; an
// allocated number is never reused even when generation later fails.
type SequenceRepository interface {
	Allocate(ctx context.Context, companyID string, month, year int) (int, error)
}

// Encoder turns an ordered record list into remittance file bytes.
// Implementations are layout-specific (CNAB400 Itaú today); given
// identical inputs they must emit byte-identical output.
type Encoder interface {
	Encode(records []PaymentRecord, header HeaderInfo) ([]byte, error)
}

// Renderer converts the borderô HTML into PDF bytes. Implemented by the
// external Gotenberg collaborator.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Service exposes aggregation, manifest and remittance file generation.
type Service interface {
	ListRecords(ctx context.Context, req GenerateRequest) (RecordListResponse, error)
	ValidateBankData(ctx context.Context, req GenerateRequest) (BankDataValidationResponse, error)
	GenerateBordero(ctx context.Context, req GenerateRequest) (filename string, pdf []byte, err error)
	GenerateCNAB400(ctx context.Context, req GenerateRequest) (filename string, file []byte, err error)
}
