package statement

import (
	"strings"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/money"
)

// parseSantanderTXT reads the Santander delimited export: semicolon
// separated, no header, three columns in fixed order (date, description,
// signed amount). Negative amounts are debits.
func parseSantanderTXT(data []byte) (*Statement, error) {
	st := &Statement{BankName: domain.BankSantander}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		st.RowsSeen++

		fields := strings.Split(line, ";")
		if len(fields) < 3 {
			continue
		}

		rawDate := strings.TrimSpace(fields[0])
		if !looksLikeDataRow(rawDate) {
			continue
		}
		posted, err := parseBRDate(rawDate)
		if err != nil {
			continue
		}

		rawAmount := strings.TrimSpace(fields[2])
		amount, negative, err := money.ParseAmount(rawAmount)
		if err != nil || !amount.IsPositive() {
			continue
		}

		direction := domain.DirectionCredit
		if negative {
			direction = domain.DirectionDebit
		}

		desc := strings.TrimSpace(fields[1])
		st.Transactions = append(st.Transactions, domain.BankTransaction{
			PostedDate:       posted,
			RawDateText:      rawDate,
			Description:      desc,
			Amount:           amount,
			RawAmountText:    rawAmount,
			Direction:        direction,
			ReferenceCode:    extractReferenceCode(desc),
			SourceLineNumber: i + 1,
			BankName:         string(domain.BankSantander),
		})
		st.RowsExtracted++
	}

	return st, nil
}
