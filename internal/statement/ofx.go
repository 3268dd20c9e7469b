package statement

import (
	"regexp"
	"strings"
	"time"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/money"
)

// OFX documents arrive both as SGML (unclosed tags) and as XML, so fields
// are pulled with bounded patterns instead of a document parser. Transaction
// blocks are well delimited in every export seen so far.
var (
	ofxTrnBlockPattern = regexp.MustCompile(`(?is)<STMTTRN>(.*?)</STMTTRN>`)
	ofxOrgPattern      = regexp.MustCompile(`(?i)<ORG>\s*([^<\r\n]+)`)
	ofxBankIDPattern   = regexp.MustCompile(`(?i)<BANKID>\s*(\d+)`)
	ofxAcctIDPattern   = regexp.MustCompile(`(?i)<ACCTID>\s*([^<\r\n]+)`)
	ofxDatePattern     = regexp.MustCompile(`^(\d{8})`)

	ofxFieldPatterns = map[string]*regexp.Regexp{
		"TRNTYPE":  regexp.MustCompile(`(?i)<TRNTYPE>\s*([^<\r\n]+)`),
		"DTPOSTED": regexp.MustCompile(`(?i)<DTPOSTED>\s*([^<\r\n]+)`),
		"TRNAMT":   regexp.MustCompile(`(?i)<TRNAMT>\s*([^<\r\n]+)`),
		"MEMO":     regexp.MustCompile(`(?i)<MEMO>\s*([^<\r\n]+)`),
		"FITID":    regexp.MustCompile(`(?i)<FITID>\s*([^<\r\n]+)`),
	}
)

// parseOFX reads a bank-agnostic OFX statement. The bank is resolved from
// the document markers before any transaction is extracted, because the
// credit/debit classification rules differ per bank.
func parseOFX(data []byte) (*Statement, error) {
	doc := string(data)

	bank := detectOFXBank(doc)
	if bank == "" {
		return nil, &ParseError{Format: HintOFX, Reason: "bank not recognized from ORG/BANKID markers"}
	}

	st := &Statement{BankName: bank}
	if m := ofxAcctIDPattern.FindStringSubmatch(doc); m != nil {
		st.AccountNumber = strings.TrimSpace(m[1])
	}

	blocks := ofxTrnBlockPattern.FindAllStringSubmatch(doc, -1)
	for i, block := range blocks {
		st.RowsSeen++

		fields := map[string]string{}
		for name, re := range ofxFieldPatterns {
			if m := re.FindStringSubmatch(block[1]); m != nil {
				fields[name] = strings.TrimSpace(m[1])
			}
		}

		posted, ok := parseOFXDate(fields["DTPOSTED"])
		if !ok {
			continue
		}
		amount, negative, err := money.ParseAmount(fields["TRNAMT"])
		if err != nil || !amount.IsPositive() {
			continue
		}

		direction := ofxDirection(bank, fields["TRNTYPE"], negative)

		memo := fields["MEMO"]
		ref := extractReferenceCode(memo)
		if ref == "" {
			ref = extractReferenceCode(fields["FITID"])
		}

		st.Transactions = append(st.Transactions, domain.BankTransaction{
			PostedDate:       posted,
			RawDateText:      fields["DTPOSTED"],
			Description:      memo,
			Amount:           amount,
			RawAmountText:    fields["TRNAMT"],
			Direction:        direction,
			ReferenceCode:    ref,
			SourceLineNumber: i + 1,
			BankName:         string(bank),
			AccountNumber:    st.AccountNumber,
		})
		st.RowsExtracted++
	}

	return st, nil
}

// detectOFXBank resolves the issuing bank from the ORG tag or, failing that,
// the FEBRABAN number in BANKID.
func detectOFXBank(doc string) domain.Bank {
	if m := ofxOrgPattern.FindStringSubmatch(doc); m != nil {
		if b := domain.NormalizeBank(m[1]); b != "" {
			return b
		}
		// ORG values are not always a clean bank name.
		org := strings.ToUpper(m[1])
		switch {
		case strings.Contains(org, "BRASIL"):
			return domain.BankBancoDoBrasil
		case strings.Contains(org, "SANTANDER"):
			return domain.BankSantander
		case strings.Contains(org, "ITAU"), strings.Contains(org, "ITAÚ"):
			return domain.BankItau
		}
	}
	if m := ofxBankIDPattern.FindStringSubmatch(doc); m != nil {
		return domain.NormalizeBank(m[1])
	}
	return ""
}

// parseOFXDate reads an 8-digit YYYYMMDD date, ignoring any trailing time
// and timezone suffix ("20250910120000-03:EST" -> 2025-09-10).
func parseOFXDate(raw string) (time.Time, bool) {
	m := ofxDatePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ofxDirection applies the per-bank credit/debit classification. The three
// rules are kept separate on purpose: the BB rule also consults the amount
// sign while Itaú and Santander go by TRNTYPE alone, and unifying them needs
// confirmation from the finance team first.
func ofxDirection(bank domain.Bank, trnType string, negative bool) domain.Direction {
	switch bank {
	case domain.BankBancoDoBrasil:
		return bbOFXDirection(trnType, negative)
	case domain.BankItau:
		return itauOFXDirection(trnType)
	default:
		return santanderOFXDirection(trnType)
	}
}

func bbOFXDirection(trnType string, negative bool) domain.Direction {
	if strings.EqualFold(trnType, "CREDIT") && !negative {
		return domain.DirectionCredit
	}
	return domain.DirectionDebit
}

func itauOFXDirection(trnType string) domain.Direction {
	if strings.EqualFold(trnType, "CREDIT") {
		return domain.DirectionCredit
	}
	return domain.DirectionDebit
}

func santanderOFXDirection(trnType string) domain.Direction {
	if strings.EqualFold(trnType, "CREDIT") {
		return domain.DirectionCredit
	}
	return domain.DirectionDebit
}
