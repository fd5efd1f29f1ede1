// Package search normaliza texto para búsquedas insensibles a tildes:
// los nombres de clientes y notas suelen escribirse con y sin acentos
// ("Asunción" / "Asuncion"), así que se comparan en forma plegada.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize devuelve el texto en minúsculas y sin marcas diacríticas.
func Normalize(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// Matches indica si needle aparece en haystack ignorando mayúsculas y tildes.
func Matches(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
