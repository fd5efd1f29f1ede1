// Package ports define interfaces hacia infraestructura que los casos de
// uso consumen sin conocer la implementación.
package ports

import "io"

// FileStore almacena archivos adjuntos (PDFs del régimen de turismo, logo).
// Los nombres son relativos al almacén; la implementación decide la ruta real.
type FileStore interface {
	Save(name string, content io.Reader) error
	Open(name string) (io.ReadCloser, error)
	Delete(name string) error
}
