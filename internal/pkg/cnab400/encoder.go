// Package cnab400 implements the 400-character fixed-width remittance
// layout (Itaú salary payment remessa). Encoding is pure: the same
// records and sequence always produce byte-identical output.
package cnab400

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/folhacerta/folha-backend-go/internal/domain/remittance"
	"github.com/folhacerta/folha-backend-go/internal/pkg/latin1"
)

const (
	recordLen = 400

	typeHeader  = '0'
	typeDetail  = '1'
	typeTrailer = '9'
)

// Field positions are 1-based and inclusive, as written in the bank's
// layout booklet.
//
// Header:  001 type | 002 remessa flag | 003-009 "REMESSA" | 010-011 service
//          012-026 service label | 027-029 bank code | 030-043 company document
//          044-073 company name | 074-079 generation date DDMMYY
//          080-084 remessa sequence | 085-394 blank | 395-400 record sequence
// Detail:  001 type | 002-006 detail number | 007-009 bank code
//          010-013 agency | 014 agency digit | 015-024 account
//          025 account digit | 026-055 beneficiary name | 056-068 amount cents
//          069-076 payment date DDMMYYYY | 077-106 history | 107-394 blank
//          395-400 record sequence
// Trailer: 001 type | 002-007 record count | 008-020 total cents
//          021-394 blank | 395-400 record sequence

// ItauEncoder encodes payment records into the Itaú CNAB400 layout.
type ItauEncoder struct{}

// NewItauEncoder constructs the encoder.
func NewItauEncoder() *ItauEncoder {
	return &ItauEncoder{}
}

// Encode produces the full remittance file: header, one detail per
// record, trailer, each record CRLF-terminated.
func (e *ItauEncoder) Encode(records []remittance.PaymentRecord, header remittance.HeaderInfo) ([]byte, error) {
	if len(records) == 0 {
		return nil, remittance.ErrEmptyRemittance
	}

	var buf bytes.Buffer
	seq := 1

	headerLine, err := encodeHeader(header, seq)
	if err != nil {
		return nil, err
	}
	writeRecord(&buf, headerLine)

	var total int64
	for i, record := range records {
		seq++
		line, err := encodeDetail(record, i+1, seq)
		if err != nil {
			return nil, fmt.Errorf("detail %d (%s): %w", i+1, record.EmployeeName, err)
		}
		writeRecord(&buf, line)
		total += int64(record.Amount)
	}

	seq++
	trailerLine, err := encodeTrailer(len(records)+2, total, seq)
	if err != nil {
		return nil, err
	}
	writeRecord(&buf, trailerLine)

	return buf.Bytes(), nil
}

func encodeHeader(h remittance.HeaderInfo, seq int) ([]byte, error) {
	line := blankRecord()
	line[0] = typeHeader
	line[1] = '1'
	if err := setText(line, 3, 9, "REMESSA", "file_label"); err != nil {
		return nil, err
	}
	if err := setNumeric(line, 10, 11, "01", "service_code"); err != nil {
		return nil, err
	}
	if err := setText(line, 12, 26, "PAGTO SALARIOS", "service_label"); err != nil {
		return nil, err
	}
	if err := setNumeric(line, 27, 29, h.BankCode, "bank_code"); err != nil {
		return nil, err
	}
	if err := setNumeric(line, 30, 43, h.CompanyDocument, "company_document"); err != nil {
		return nil, err
	}
	if err := setText(line, 44, 73, h.CompanyName, "company_name"); err != nil {
		return nil, err
	}
	if err := setNumeric(line, 74, 79, h.GeneratedAt.Format("020106"), "generation_date"); err != nil {
		return nil, err
	}
	if err := setNumericInt(line, 80, 84, int64(h.Sequence), "remessa_sequence"); err != nil {
		return nil, err
	}
	if err := setNumericInt(line, 395, 400, int64(seq), "record_sequence"); err != nil {
		return nil, err
	}
	return line, nil
}

func encodeDetail(r remittance.PaymentRecord, detailNumber, seq int) ([]byte, error) {
	if !r.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %d cents", int64(r.Amount))
	}
	if !r.Bank.Complete() {
		return nil, fmt.Errorf("incomplete banking data")
	}

	line := blankRecord()
	line[0] = typeDetail
	if err := setNumericInt(line, 2, 6, int64(detailNumber), "detail_number"); err != nil {
		return nil, err
	}
	if err := setNumeric(line, 7, 9, r.Bank.BankCode, "bank_code"); err != nil {
		return nil, err
	}
	if err := setNumeric(line, 10, 13, r.Bank.Agency, "agency"); err != nil {
		return nil, err
	}
	if err := setText(line, 14, 14, r.Bank.AgencyDigit, "agency_digit"); err != nil {
		return nil, err
	}
	if err := setNumeric(line, 15, 24, r.Bank.Account, "account"); err != nil {
		return nil, err
	}
	if err := setText(line, 25, 25, r.Bank.AccountDigit, "account_digit"); err != nil {
		return nil, err
	}
	if err := setText(line, 26, 55, r.EmployeeName, "beneficiary_name"); err != nil {
		return nil, err
	}
	if err := setNumericInt(line, 56, 68, int64(r.Amount), "amount"); err != nil {
		return nil, err
	}
	if err := setNumeric(line, 69, 76, r.ReferenceDate.Format("02012006"), "payment_date"); err != nil {
		return nil, err
	}
	history := fmt.Sprintf("PAGAMENTO SALARIO %02d/%04d", r.ReferenceDate.Month(), r.ReferenceDate.Year())
	if err := setText(line, 77, 106, history, "history"); err != nil {
		return nil, err
	}
	if err := setNumericInt(line, 395, 400, int64(seq), "record_sequence"); err != nil {
		return nil, err
	}
	return line, nil
}

func encodeTrailer(recordCount int, totalCents int64, seq int) ([]byte, error) {
	line := blankRecord()
	line[0] = typeTrailer
	if err := setNumericInt(line, 2, 7, int64(recordCount), "record_count"); err != nil {
		return nil, err
	}
	if err := setNumericInt(line, 8, 20, totalCents, "total_amount"); err != nil {
		return nil, err
	}
	if err := setNumericInt(line, 395, 400, int64(seq), "record_sequence"); err != nil {
		return nil, err
	}
	return line, nil
}

func blankRecord() []byte {
	line := make([]byte, recordLen)
	for i := range line {
		line[i] = ' '
	}
	return line
}

func writeRecord(buf *bytes.Buffer, line []byte) {
	buf.Write(line)
	buf.WriteString("\r\n")
}

// setText writes a space-padded, left-aligned text field after
// transliterating and encoding it to the target charset. Width is
// measured in encoded bytes, one byte per Latin-1 character, so the
// record stays exactly 400 bytes. Overflow is an error, never a
// truncation.
func setText(line []byte, start, end int, value, field string) error {
	plain, err := latin1.Transliterate(value)
	if err != nil {
		return &remittance.CharsetError{Field: field, Err: err}
	}
	encoded, err := latin1.Encode(strings.ToUpper(plain))
	if err != nil {
		return &remittance.CharsetError{Field: field, Err: err}
	}
	width := end - start + 1
	if len(encoded) > width {
		return &remittance.FieldOverflowError{Field: field, Value: value, Width: width}
	}
	copy(line[start-1:], encoded)
	return nil
}

// setNumeric writes a zero-padded, right-aligned digit field.
func setNumeric(line []byte, start, end int, value, field string) error {
	width := end - start + 1
	if len(value) > width {
		return &remittance.FieldOverflowError{Field: field, Value: value, Width: width}
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return fmt.Errorf("field %s value %q is not numeric", field, value)
		}
	}
	padded := strings.Repeat("0", width-len(value)) + value
	copy(line[start-1:], padded)
	return nil
}

func setNumericInt(line []byte, start, end int, value int64, field string) error {
	if value < 0 {
		return fmt.Errorf("field %s value %d is negative", field, value)
	}
	return setNumeric(line, start, end, fmt.Sprintf("%d", value), field)
}
