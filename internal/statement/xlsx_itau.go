package statement

import (
	"strings"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/money"
)

// Fixed column offsets of the Itaú statement workbook: description, document
// number, signed amount and running balance follow the date column.
const (
	itauColDescription = 1
	itauColDocument    = 2
	itauColAmount      = 3
	itauColBalance     = 4
)

// parseItauXLSX reads the Itaú account statement workbook. Unlike BB there
// is no credit/debit flag column; the sign of the amount decides the
// direction. The running balance column is ignored.
func parseItauXLSX(data []byte) (*Statement, error) {
	rows, err := rowsFromXLSX(data)
	if err != nil {
		return nil, &ParseError{Format: HintItau, Reason: "unreadable spreadsheet", Err: err}
	}

	st := &Statement{
		BankName:      domain.BankItau,
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

		rawAmount := cellAt(row, itauColAmount)
		amount, negative, err := money.ParseAmount(rawAmount)
		if err != nil || !amount.IsPositive() {
			continue
		}

		direction := domain.DirectionCredit
		if negative {
			direction = domain.DirectionDebit
		}

		desc := cellAt(row, itauColDescription)
		doc := cellAt(row, itauColDocument)
		ref := extractReferenceCode(strings.TrimSpace(desc + " " + doc))

		st.Transactions = append(st.Transactions, domain.BankTransaction{
			PostedDate:       posted,
			RawDateText:      first,
			Description:      desc,
			Amount:           amount,
			RawAmountText:    rawAmount,
			Direction:        direction,
			ReferenceCode:    ref,
			SourceLineNumber: i + 1,
			BankName:         string(domain.BankItau),
			AccountNumber:    st.AccountNumber,
		})
		st.RowsExtracted++
	}

	return st, nil
}
