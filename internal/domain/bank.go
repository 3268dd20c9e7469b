package domain

import "strings"

// Bank is the canonical identity of a supported bank. Statement files and
// ledger entries refer to the same bank under several spellings; everything
// that compares banks must go through NormalizeBank first.
type Bank string

const (
	BankBancoDoBrasil Bank = "BANCO DO BRASIL"
	BankSantander     Bank = "SANTANDER"
	BankItau          Bank = "ITAU"
)

// bankAliases maps upper-cased, accent-stripped spellings (and the FEBRABAN
// bank numbers seen in OFX BANKID tags) to canonical banks.
var bankAliases = map[string]Bank{
	"BB":                BankBancoDoBrasil,
	"BANCO BRASIL":      BankBancoDoBrasil,
	"BANCO DO BRASIL":   BankBancoDoBrasil,
	"BANCODOBRASIL":     BankBancoDoBrasil,
	"001":               BankBancoDoBrasil,
	"SANTANDER":         BankSantander,
	"BANCO SANTANDER":   BankSantander,
	"SANTANDER BRASIL":  BankSantander,
	"033":               BankSantander,
	"ITAU":              BankItau,
	"BANCO ITAU":        BankItau,
	"ITAU UNIBANCO":     BankItau,
	"ITAUBANK":          BankItau,
	"341":               BankItau,
}

var accentReplacer = strings.NewReplacer(
	"Á", "A", "Ã", "A", "Â", "A",
	"É", "E", "Ê", "E",
	"Í", "I",
	"Ó", "O", "Õ", "O", "Ô", "O",
	"Ú", "U", "Ü", "U",
	"Ç", "C",
)

// NormalizeBank maps a free-text bank name to its canonical Bank value.
// Unknown names yield the empty Bank.
func NormalizeBank(name string) Bank {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = accentReplacer.Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	if b, ok := bankAliases[key]; ok {
		return b
	}
	return ""
}
