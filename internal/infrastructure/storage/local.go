// Package storage implementa el almacenamiento local de archivos subidos
// (PDFs acreditantes del régimen de turismo).
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sigepy/erp-api/internal/application/ports"
	"github.com/sigepy/erp-api/internal/domain"
)

var _ ports.FileStore = (*LocalStore)(nil)

// LocalStore guarda archivos en un directorio del filesystem. Los nombres
// llegan ya saneados desde el use case; igual se rechaza cualquier intento
// de escapar del directorio base.
type LocalStore struct {
	dir string
}

// NewLocalStore crea el directorio base si no existe.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(name string) (string, error) {
	clean := filepath.Base(name)
	if clean == "." || clean == ".." || clean == "" {
		return "", fmt.Errorf("storage: nombre de archivo inválido: %q", name)
	}
	return filepath.Join(s.dir, clean), nil
}

// Save escribe el contenido en un archivo temporal y lo renombra, para no
// dejar archivos a medias si la escritura falla.
func (s *LocalStore) Save(name string, content io.Reader) error {
	dst, err := s.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("storage: guardar %s: %w", name, err)
	}
	return nil
}

// Open abre el archivo para lectura. Devuelve domain.ErrNotFound si no existe.
func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: abrir %s: %w", name, err)
	}
	return f, nil
}

// Delete elimina el archivo. Borrar algo que no existe no es error.
func (s *LocalStore) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: eliminar %s: %w", name, err)
	}
	return nil
}
