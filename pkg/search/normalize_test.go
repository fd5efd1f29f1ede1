package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sigepy/erp-api/pkg/search"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "asuncion", search.Normalize("Asunción"))
	assert.Equal(t, "sena", search.Normalize("SEÑA")) // la eñe pierde la virgulilla
	assert.Equal(t, "cotizacion 042", search.Normalize("Cotización 042"))
}

func TestMatches(t *testing.T) {
	assert.True(t, search.Matches("Turismo Ñandutí S.A.", "nanduti"))
	assert.True(t, search.Matches("Hotel Guaraní", "GUARANI"))
	assert.True(t, search.Matches("cualquier cosa", ""))
	assert.False(t, search.Matches("Hotel Guaraní", "paraná"))
}
