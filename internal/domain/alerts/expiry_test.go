package alerts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sigepy/erp-api/internal/domain/alerts"
)

var today = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func days(n int) time.Time { return today.AddDate(0, 0, n) }

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, alerts.DaysUntil(today, today))
	assert.Equal(t, 3, alerts.DaysUntil(days(3), today))
	assert.Equal(t, -2, alerts.DaysUntil(days(-2), today))
	// La hora del día no debe influir en el conteo.
	lateExpiry := time.Date(2025, 6, 18, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 3, alerts.DaysUntil(lateExpiry, today))
}

func TestIsExpired(t *testing.T) {
	assert.True(t, alerts.IsExpired(days(-1), today))
	assert.False(t, alerts.IsExpired(today, today), "el mismo día no cuenta como vencido")
	assert.False(t, alerts.IsExpired(days(5), today))
}

// Los umbrales de clientes (5 días) y productos (30 días) difieren a
// propósito: una misma fecha puede estar "por vencer" en una vista y no en
// la otra.
func TestIsExpiringSoon_UmbralesIndependientes(t *testing.T) {
	expiry := days(3)

	assert.True(t, alerts.IsExpiringSoon(expiry, today, alerts.CustomerExpiryWindowDays))
	assert.False(t, alerts.IsExpired(expiry, today))

	// A 3 días también entra en la ventana de 30; el caso que separa ambas
	// vistas es una fecha entre 6 y 30 días.
	mid := days(12)
	assert.False(t, alerts.IsExpiringSoon(mid, today, alerts.CustomerExpiryWindowDays))
	assert.True(t, alerts.IsExpiringSoon(mid, today, alerts.ProductExpiryWindowDays))
}

func TestIsExpiringSoon_Bordes(t *testing.T) {
	assert.True(t, alerts.IsExpiringSoon(today, today, 5), "hoy entra en la ventana")
	assert.True(t, alerts.IsExpiringSoon(days(5), today, 5))
	assert.False(t, alerts.IsExpiringSoon(days(6), today, 5))
	assert.False(t, alerts.IsExpiringSoon(days(-1), today, 5), "lo vencido no es 'por vencer'")
}
