// Package statement parses bank statement exports into normalized
// transactions. One file per source format, mirroring what each bank's
// export actually looks like rather than what it should look like.
package statement

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
)

// FormatHint selects the parser for an uploaded file. HintAuto falls back to
// the file extension, which only works for self-describing formats.
type FormatHint string

const (
	HintAuto          FormatHint = "auto"
	HintBancoDoBrasil FormatHint = "bb"
	HintSantander     FormatHint = "santander"
	HintItau          FormatHint = "itau"
	HintOFX           FormatHint = "ofx"
)

// Statement is the normalized output of parsing one uploaded file. Rows that
// fail the data-row heuristics are counted in RowsSeen but not extracted;
// partial extraction is the normal case, not an error.
type Statement struct {
	BankName      domain.Bank               `json:"bank_name"`
	AccountNumber string                    `json:"account_number,omitempty"`
	Transactions  []domain.BankTransaction  `json:"transactions"`
	RowsSeen      int                       `json:"rows_seen"`
	RowsExtracted int                       `json:"rows_extracted"`
}

// ParseError reports an unusable file: unreadable content, an unsupported
// format, or a bank that could not be resolved for a format that does not
// identify itself.
type ParseError struct {
	Format FormatHint
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse statement (%s): %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse statement (%s): %s", e.Format, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts raw uploaded bytes into a Statement. The hint picks the
// parser directly; with HintAuto the file extension decides, and only OFX
// and the Santander text layout are self-describing enough for that.
func Parse(data []byte, filename string, hint FormatHint) (*Statement, error) {
	if len(data) == 0 {
		return nil, &ParseError{Format: hint, Reason: "empty file"}
	}

	switch hint {
	case HintBancoDoBrasil:
		return parseBancoDoBrasilXLSX(data)
	case HintSantander:
		return parseSantanderTXT(data)
	case HintItau:
		return parseItauXLSX(data)
	case HintOFX:
		return parseOFX(data)
	case HintAuto, "":
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".ofx":
			return parseOFX(data)
		case ".txt":
			return parseSantanderTXT(data)
		default:
			return nil, &ParseError{
				Format: HintAuto,
				Reason: fmt.Sprintf("bank type unresolved for %q, spreadsheet uploads need an explicit bank hint", filename),
			}
		}
	default:
		return nil, &ParseError{Format: hint, Reason: "unsupported format hint"}
	}
}

// dataRowDatePattern matches the DD/MM/YYYY prefix that distinguishes
// transaction rows from header, footer and summary rows in the spreadsheet
// layouts.
var dataRowDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

// looksLikeDataRow reports whether the first cell of a spreadsheet row is a
// transaction date. The length guard rejects cells where a date merely
// prefixes longer text, such as period descriptions in summary rows.
func looksLikeDataRow(firstCell string) bool {
	cell := strings.TrimSpace(firstCell)
	return len(cell) <= 15 && dataRowDatePattern.MatchString(cell)
}

func parseBRDate(raw string) (time.Time, error) {
	return time.Parse("02/01/2006", strings.TrimSpace(raw)[:10])
}

// referencePatterns lists the accepted spellings of a process reference code
// (e.g. "UN25/7093") in order of preference: slash or dot separated, dash
// separated, space separated, and fully concatenated digits.
var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([A-Z]{2})(\d{2})[./](\d{4,5})\b`),
	regexp.MustCompile(`(?i)\b([A-Z]{2})(\d{2})-(\d{4,5})\b`),
	regexp.MustCompile(`(?i)\b([A-Z]{2})(\d{2}) (\d{4,5})\b`),
	regexp.MustCompile(`(?i)\b([A-Z]{2})(\d{6,7})\b`),
}

// extractReferenceCode finds the first reference code in free text and
// returns it in canonical form. No match is normal and yields "".
func extractReferenceCode(text string) string {
	for _, re := range referencePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		token := strings.ToUpper(strings.Join(m[1:], ""))
		return CanonicalReference(token)
	}
	return ""
}

// CanonicalReference normalizes a reference code to prefix plus concatenated
// digits: upper-cased, whitespace and separator characters stripped. "UN25/7093",
// "un25.7093" and "UN257093" all canonicalize to "UN257093".
func CanonicalReference(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		switch r {
		case '.', '/', '-', ' ', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// accountPattern finds an agency/account token in the header region of a
// spreadsheet export, e.g. "Conta: 1234-5" or "Ag/Conta 0937 / 45671-0".
var accountPattern = regexp.MustCompile(`(?i)(?:ag[êe]ncia/conta|ag/conta|conta(?:\s+corrente)?)\s*:?\s*([\d][\d./ -]*\d)`)

// findAccountNumber scans the rows above the first data row for an account
// identifier. Absence is normal for layouts that never carry one.
func findAccountNumber(rows [][]string) string {
	for _, row := range rows {
		if len(row) > 0 && looksLikeDataRow(row[0]) {
			return ""
		}
		for _, cell := range row {
			if m := accountPattern.FindStringSubmatch(cell); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}

// rowsFromXLSX loads the first sheet of a workbook as string cells.
func rowsFromXLSX(data []byte) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
