package statement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
)

func TestParseSantanderTXT(t *testing.T) {
	data := []byte("11/09/2025;PAGTO FORNECEDOR UN25/7020;-533,41\r\n" +
		"10/09/2025;CREDITO TED CLIENTE;1.200,00\r\n" +
		"linha de rodape sem colunas\r\n" +
		"12/09/2025;ESTORNO;0,00\r\n")

	st, err := Parse(data, "extrato.txt", HintSantander)
	require.NoError(t, err)

	assert.Equal(t, domain.BankSantander, st.BankName)
	assert.Equal(t, 4, st.RowsSeen)
	assert.Equal(t, 2, st.RowsExtracted)
	require.Len(t, st.Transactions, 2)

	debit := st.Transactions[0]
	assert.Equal(t, domain.DirectionDebit, debit.Direction)
	assert.True(t, debit.Amount.Equal(decimal.RequireFromString("533.41")))
	assert.Equal(t, "-533,41", debit.RawAmountText)
	assert.Equal(t, "UN257020", debit.ReferenceCode)
	assert.Equal(t, 1, debit.SourceLineNumber)
	assert.Equal(t, "11/09/2025", debit.RawDateText)
	assert.Equal(t, 2025, debit.PostedDate.Year())

	credit := st.Transactions[1]
	assert.Equal(t, domain.DirectionCredit, credit.Direction)
	assert.True(t, credit.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, "", credit.ReferenceCode)
	assert.Equal(t, 2, credit.SourceLineNumber)
}

func TestParseSantanderTXTAllNoise(t *testing.T) {
	st, err := Parse([]byte("cabecalho\noutra linha\n"), "x.txt", HintSantander)
	require.NoError(t, err)
	assert.Equal(t, 0, st.RowsExtracted)
	assert.Empty(t, st.Transactions)
}
