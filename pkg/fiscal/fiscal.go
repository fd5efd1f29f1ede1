// Package fiscal implementa las reglas fiscales paraguayas: validación de
// RUC con dígito verificador (módulo 11), validación de timbrado y formato
// de numeración de comprobantes (punto de expedición + secuencial).
package fiscal

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimbradoWarningDays ventana de aviso previo al vencimiento del timbrado.
const TimbradoWarningDays = 30

var nonDigits = regexp.MustCompile(`[^0-9]`)

// RUCInfo resultado de la validación de un RUC.
type RUCInfo struct {
	Base      string // RUC sin dígito verificador
	DV        string // dígito verificador
	Formatted string // "80012345-1"
}

// ValidateRUC valida un RUC paraguayo (acepta guiones y espacios).
// Si el RUC incluye dígito verificador lo contrasta con el calculado;
// si no lo incluye, lo calcula y lo devuelve en el formato canónico.
func ValidateRUC(ruc string) (*RUCInfo, error) {
	clean := nonDigits.ReplaceAllString(ruc, "")
	if clean == "" {
		return nil, fmt.Errorf("ruc: vacío")
	}
	if len(clean) < 6 {
		return nil, fmt.Errorf("ruc: debe tener al menos 6 dígitos")
	}
	if len(clean) > 10 {
		return nil, fmt.Errorf("ruc: no puede tener más de 10 dígitos")
	}

	if len(clean) >= 7 {
		base := clean[:len(clean)-1]
		dv := clean[len(clean)-1:]
		want := fmt.Sprintf("%d", checkDigit(base))
		if dv != want {
			return nil, fmt.Errorf("ruc: dígito verificador incorrecto (esperado %s, recibido %s)", want, dv)
		}
		return &RUCInfo{Base: base, DV: dv, Formatted: base + "-" + dv}, nil
	}

	dv := fmt.Sprintf("%d", checkDigit(clean))
	return &RUCInfo{Base: clean, DV: dv, Formatted: clean + "-" + dv}, nil
}

// checkDigit calcula el dígito verificador módulo 11 del RUC paraguayo.
// Se recorre el número desde el último dígito con multiplicadores 2..7 cíclicos.
func checkDigit(base string) int {
	multipliers := []int{2, 3, 4, 5, 6, 7, 2, 3, 4}
	total := 0
	for i := 0; i < len(base) && i < len(multipliers); i++ {
		d := int(base[len(base)-1-i] - '0')
		total += d * multipliers[i]
	}
	rem := total % 11
	if rem < 2 {
		return rem
	}
	return 11 - rem
}

// ValidateTimbrado valida el número de timbrado fiscal: solo dígitos y al
// menos 8 de ellos.
func ValidateTimbrado(timbrado string) error {
	clean := nonDigits.ReplaceAllString(timbrado, "")
	if clean == "" {
		return fmt.Errorf("timbrado: vacío")
	}
	if len(clean) < 8 {
		return fmt.Errorf("timbrado: debe tener al menos 8 dígitos")
	}
	return nil
}

// TimbradoExpiringSoon indica si el timbrado vence dentro de la ventana de
// aviso. Un timbrado ya vencido no cuenta como "por vencer".
func TimbradoExpiringSoon(expiry, now time.Time) bool {
	if expiry.Before(now) {
		return false
	}
	return !expiry.After(now.AddDate(0, 0, TimbradoWarningDays))
}

// FormatInvoiceNumber formatea el número de factura paraguayo:
// punto de expedición con 3 dígitos + secuencial con 7 (ej: "001-0000001").
func FormatInvoiceNumber(seq int, puntoExpedicion string) string {
	return fmt.Sprintf("%s-%07d", NormalizePuntoExpedicion(puntoExpedicion), seq)
}

// NormalizePuntoExpedicion limpia y rellena el punto de expedición a 3 dígitos.
func NormalizePuntoExpedicion(punto string) string {
	clean := nonDigits.ReplaceAllString(punto, "")
	if clean == "" {
		return "001"
	}
	if len(clean) > 3 {
		clean = clean[len(clean)-3:]
	}
	return strings.Repeat("0", 3-len(clean)) + clean
}

// FormatCurrency formatea un monto según la convención local:
// guaraníes sin decimales con separador de miles "." y dólares con 2 decimales.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	switch currency {
	case "PYG":
		return groupThousands(amount.Round(0).StringFixed(0)) + " Gs."
	case "USD":
		return "US$ " + amount.Round(2).StringFixed(2)
	default:
		return amount.Round(2).StringFixed(2) + " " + currency
	}
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
