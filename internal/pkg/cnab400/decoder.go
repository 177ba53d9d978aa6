package cnab400

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodedDetail is the subset of a detail record relevant for audit:
// the money and the destination account.
type DecodedDetail struct {
	DetailNumber int
	BankCode     string
	Agency       string
	AgencyDigit  string
	Account      string
	AccountDigit string
	Beneficiary  string
	AmountCents  int64
	PaymentDate  string
	Sequence     int
}

// DecodedFile holds the parsed records of a remittance file.
type DecodedFile struct {
	RemessaSequence int
	Details         []DecodedDetail
	RecordCount     int
	TotalCents      int64
}

// Decode parses a generated file back into its payment details and
// trailer totals. It exists for round-trip verification and audit
// tooling, not for reading third-party files.
//
// Records are sliced as raw Latin-1 bytes so field positions stay
// aligned; only text fields go through the charset decoder.
func Decode(data []byte) (DecodedFile, error) {
	records := bytes.Split(bytes.TrimRight(data, "\r\n"), []byte("\r\n"))
	if len(records) < 3 {
		return DecodedFile{}, fmt.Errorf("cnab400: file has %d records, need at least 3", len(records))
	}

	var file DecodedFile
	var err error
	for i, record := range records {
		if len(record) != recordLen {
			return DecodedFile{}, fmt.Errorf("cnab400: record %d is %d bytes, want %d", i+1, len(record), recordLen)
		}
		switch record[0] {
		case typeHeader:
			file.RemessaSequence, err = atoiField(record, 80, 84)
			if err != nil {
				return DecodedFile{}, fmt.Errorf("cnab400: header: %w", err)
			}
		case typeDetail:
			detail, err := decodeDetail(record)
			if err != nil {
				return DecodedFile{}, fmt.Errorf("cnab400: record %d: %w", i+1, err)
			}
			file.Details = append(file.Details, detail)
		case typeTrailer:
			file.RecordCount, err = atoiField(record, 2, 7)
			if err != nil {
				return DecodedFile{}, fmt.Errorf("cnab400: trailer: %w", err)
			}
			total, err := strconv.ParseInt(numField(record, 8, 20), 10, 64)
			if err != nil {
				return DecodedFile{}, fmt.Errorf("cnab400: trailer total: %w", err)
			}
			file.TotalCents = total
		default:
			return DecodedFile{}, fmt.Errorf("cnab400: record %d has unknown type %q", i+1, record[0])
		}
	}
	return file, nil
}

func decodeDetail(record []byte) (DecodedDetail, error) {
	detailNumber, err := atoiField(record, 2, 6)
	if err != nil {
		return DecodedDetail{}, err
	}
	amount, err := strconv.ParseInt(numField(record, 56, 68), 10, 64)
	if err != nil {
		return DecodedDetail{}, fmt.Errorf("amount: %w", err)
	}
	seq, err := atoiField(record, 395, 400)
	if err != nil {
		return DecodedDetail{}, err
	}
	beneficiary, err := textField(record, 26, 55)
	if err != nil {
		return DecodedDetail{}, fmt.Errorf("beneficiary: %w", err)
	}

	// Agency and account live in zero-padded numeric fields, so leading
	// zeros carry no significance: "0123456" and "123456" encode to the
	// same bytes and decode to the same canonical digit string.
	return DecodedDetail{
		DetailNumber: detailNumber,
		BankCode:     numField(record, 7, 9),
		Agency:       strings.TrimLeft(numField(record, 10, 13), "0"),
		AgencyDigit:  strings.TrimSpace(numField(record, 14, 14)),
		Account:      strings.TrimLeft(numField(record, 15, 24), "0"),
		AccountDigit: strings.TrimSpace(numField(record, 25, 25)),
		Beneficiary:  strings.TrimRight(beneficiary, " "),
		AmountCents:  amount,
		PaymentDate:  numField(record, 69, 76),
		Sequence:     seq,
	}, nil
}

func field(record []byte, start, end int) []byte {
	return record[start-1 : end]
}

// numField reads a digit (or single-character) field; those are ASCII
// and need no charset conversion.
func numField(record []byte, start, end int) string {
	return string(field(record, start, end))
}

// textField converts a free-text field from Latin-1 to UTF-8.
func textField(record []byte, start, end int) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(field(record, start, end))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func atoiField(record []byte, start, end int) (int, error) {
	v, err := strconv.Atoi(numField(record, start, end))
	if err != nil {
		return 0, fmt.Errorf("positions %d-%d: %w", start, end, err)
	}
	return v, nil
}
