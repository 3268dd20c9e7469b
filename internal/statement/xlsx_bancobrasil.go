package statement

import (
	"strings"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/money"
)

// Fixed column offsets of the Banco do Brasil spreadsheet export. The layout
// interleaves transaction rows with balance and header rows, so rows are
// selected by the date heuristic rather than by position.
const (
	bbColDescription = 8
	bbColAmount      = 9
	bbColFlag        = 10
)

// parseBancoDoBrasilXLSX reads the BB account statement workbook. Each data
// row carries a single-character credit/debit flag; "C" (case-insensitive)
// means credit, anything else debit. Rows without a parseable date or with a
// non-positive amount are layout noise and skipped silently.
func parseBancoDoBrasilXLSX(data []byte) (*Statement, error) {
	rows, err := rowsFromXLSX(data)
	if err != nil {
		return nil, &ParseError{Format: HintBancoDoBrasil, Reason: "unreadable spreadsheet", Err: err}
	}

	st := &Statement{
		BankName:      domain.BankBancoDoBrasil,
		AccountNumber: findAccountNumber(rows),
	}

	for i, row := range rows {
		st.RowsSeen++

		first := cellAt(row, 0)
		if !looksLikeDataRow(first) {
			continue
		}
		posted, err := parseBRDate(first)
		if err != nil {
			continue
		}

		rawAmount := cellAt(row, bbColAmount)
		amount, _, err := money.ParseAmount(rawAmount)
		if err != nil || !amount.IsPositive() {
			continue
		}

		direction := domain.DirectionDebit
		if strings.EqualFold(cellAt(row, bbColFlag), "C") {
			direction = domain.DirectionCredit
		}

		desc := cellAt(row, bbColDescription)
		st.Transactions = append(st.Transactions, domain.BankTransaction{
			PostedDate:       posted,
			RawDateText:      first,
			Description:      desc,
			Amount:           amount,
			RawAmountText:    rawAmount,
			Direction:        direction,
			ReferenceCode:    extractReferenceCode(desc),
			SourceLineNumber: i + 1,
			BankName:         string(domain.BankBancoDoBrasil),
			AccountNumber:    st.AccountNumber,
		})
		st.RowsExtracted++
	}

	return st, nil
}
