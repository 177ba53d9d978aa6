package postgresql

import (
	"context"
	"fmt"

	"github.com/folhacerta/folha-backend-go/internal/domain/remittance"
	"github.com/folhacerta/folha-backend-go/internal/pkg/database"
)

type sequenceRepository struct {
	db *database.DB
}

func NewSequenceRepository(db *database.DB) remittance.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Allocate hands out the next remessa number for the key in one atomic
// statement. Concurrent callers each get a distinct number; numbers are
// never handed out twice, even across restarts. A number consumed by a
// failed generation stays consumed — the bank tolerates gaps, not reuse.
func (r *sequenceRepository) Allocate(ctx context.Context, companyID string, month, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO remittance_sequences (company_id, month, year, next_sequence, updated_at)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (company_id, month, year)
		DO UPDATE SET next_sequence = remittance_sequences.next_sequence + 1, updated_at = NOW()
		RETURNING next_sequence
	`

	var seq int
	if err := q.QueryRow(ctx, query, companyID, month, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate remittance sequence: %w", err)
	}

	return seq, nil
}
