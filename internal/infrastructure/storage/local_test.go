package storage_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/infrastructure/storage"
)

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("turismo_cli-1.pdf", strings.NewReader("%PDF-1.4 contenido")))

	rc, err := store.Open("turismo_cli-1.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4 contenido", string(data))

	require.NoError(t, store.Delete("turismo_cli-1.pdf"))
	_, err = store.Open("turismo_cli-1.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalStore_SaveSobrescribe(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("doc.pdf", strings.NewReader("v1")))
	require.NoError(t, store.Save("doc.pdf", strings.NewReader("v2")))

	rc, err := store.Open("doc.pdf")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "v2", string(data))
}

func TestLocalStore_NoEscapaDelDirectorio(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	// filepath.Base reduce el path al nombre; "../.." queda inválido.
	err = store.Save("../..", strings.NewReader("x"))
	assert.Error(t, err)

	// Un path con directorios se guarda bajo el nombre base.
	require.NoError(t, store.Save("../../etc/passwd.pdf", strings.NewReader("x")))
	rc, err := store.Open("passwd.pdf")
	require.NoError(t, err)
	rc.Close()
}

func TestLocalStore_DeleteInexistenteNoFalla(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete("no-existe.pdf"))
}
