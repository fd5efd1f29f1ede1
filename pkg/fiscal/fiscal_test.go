package fiscal_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigepy/erp-api/pkg/fiscal"
)

// El dígito verificador se calcula con módulo 11 recorriendo el RUC desde el
// último dígito con multiplicadores 2..7 cíclicos.
func TestValidateRUC_CalculaDV(t *testing.T) {
	info, err := fiscal.ValidateRUC("800123")
	require.NoError(t, err)
	assert.Equal(t, "800123", info.Base)
	assert.NotEmpty(t, info.DV)
	assert.Equal(t, info.Base+"-"+info.DV, info.Formatted)
}

func TestValidateRUC_AceptaDVCorrecto(t *testing.T) {
	// Primero obtenemos el DV canónico y luego validamos el RUC completo.
	info, err := fiscal.ValidateRUC("801234")
	require.NoError(t, err)

	full, err := fiscal.ValidateRUC(info.Formatted)
	require.NoError(t, err)
	assert.Equal(t, "801234", full.Base)
	assert.Equal(t, info.DV, full.DV)
}

func TestValidateRUC_RechazaDVIncorrecto(t *testing.T) {
	info, err := fiscal.ValidateRUC("801234")
	require.NoError(t, err)

	// Cambiar el DV por cualquier otro dígito debe fallar.
	badDV := "0"
	if info.DV == "0" {
		badDV = "1"
	}
	_, err = fiscal.ValidateRUC(info.Base + "-" + badDV)
	assert.Error(t, err)
}

func TestValidateRUC_Limites(t *testing.T) {
	cases := []struct {
		name string
		ruc  string
	}{
		{"vacío", ""},
		{"muy corto", "12345"},
		{"muy largo", "12345678901"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fiscal.ValidateRUC(tc.ruc)
			assert.Error(t, err)
		})
	}
}

func TestValidateTimbrado(t *testing.T) {
	assert.NoError(t, fiscal.ValidateTimbrado("12345678"))
	assert.NoError(t, fiscal.ValidateTimbrado("1234-5678"))
	assert.Error(t, fiscal.ValidateTimbrado(""))
	assert.Error(t, fiscal.ValidateTimbrado("1234567"))
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "001-0000001", fiscal.FormatInvoiceNumber(1, "001"))
	assert.Equal(t, "003-0001234", fiscal.FormatInvoiceNumber(1234, "3"))
	assert.Equal(t, "001-0000042", fiscal.FormatInvoiceNumber(42, ""))
}

func TestTimbradoExpiringSoon(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, fiscal.TimbradoExpiringSoon(now.AddDate(0, 0, 10), now))
	assert.True(t, fiscal.TimbradoExpiringSoon(now.AddDate(0, 0, fiscal.TimbradoWarningDays), now))
	assert.False(t, fiscal.TimbradoExpiringSoon(now.AddDate(0, 0, fiscal.TimbradoWarningDays+1), now))
	// Vencido no es "por vencer": ese caso lo bloquea la emisión directamente.
	assert.False(t, fiscal.TimbradoExpiringSoon(now.AddDate(0, 0, -1), now))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1.234.567 Gs.", fiscal.FormatCurrency(decimal.NewFromInt(1234567), "PYG"))
	assert.Equal(t, "500 Gs.", fiscal.FormatCurrency(decimal.NewFromInt(500), "PYG"))
	assert.Equal(t, "US$ 1250.50", fiscal.FormatCurrency(decimal.RequireFromString("1250.5"), "USD"))
}
