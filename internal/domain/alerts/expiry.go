// Package alerts contiene los predicados puros de vencimiento usados por
// los listados y el dashboard. Se recalculan en cada consulta; nunca se
// persisten como flags.
package alerts

import "time"

// Ventanas de aviso en días. Los dos umbrales difieren a propósito: el
// régimen de turismo de clientes se avisa con 5 días y el vencimiento de
// productos perecederos con 30.
const (
	CustomerExpiryWindowDays = 5
	ProductExpiryWindowDays  = 30
)

// DaysUntil devuelve los días calendario entre today y expiry (negativo si
// ya venció). Ambas fechas se truncan a medianoche para ignorar la hora.
func DaysUntil(expiry, today time.Time) int {
	e := truncate(expiry)
	t := truncate(today)
	return int(e.Sub(t).Hours() / 24)
}

// IsExpired indica si la fecha ya venció: expiry < today (el mismo día
// todavía no cuenta como vencido).
func IsExpired(expiry, today time.Time) bool {
	return DaysUntil(expiry, today) < 0
}

// IsExpiringSoon indica si expiry cae dentro de la ventana de aviso:
// 0 <= días restantes <= windowDays.
func IsExpiringSoon(expiry, today time.Time, windowDays int) bool {
	d := DaysUntil(expiry, today)
	return d >= 0 && d <= windowDays
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
