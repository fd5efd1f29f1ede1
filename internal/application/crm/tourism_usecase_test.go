package crm_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigepy/erp-api/internal/application/crm"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/logger"
)

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
	expiring  []*entity.Customer
}

func (f *fakeCustomerRepo) Create(c *entity.Customer) error             { f.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) { return f.customers[id], nil }
func (f *fakeCustomerRepo) GetByCode(string) (*entity.Customer, error)  { return nil, nil }
func (f *fakeCustomerRepo) List(repository.CustomerFilter) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Update(c *entity.Customer) error { f.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) SetActive(string, bool) error    { return nil }
func (f *fakeCustomerRepo) ListExpiringTourism(_, _ time.Time) ([]*entity.Customer, error) {
	return f.expiring, nil
}
func (f *fakeCustomerRepo) CreateContact(*entity.Contact) error            { return nil }
func (f *fakeCustomerRepo) GetContact(string) (*entity.Contact, error)     { return nil, nil }
func (f *fakeCustomerRepo) ListContacts(string) ([]*entity.Contact, error) { return nil, nil }
func (f *fakeCustomerRepo) UpdateContact(*entity.Contact) error            { return nil }
func (f *fakeCustomerRepo) DeleteContact(string) error                     { return nil }

type fakeFileStore struct {
	files map[string]string
}

func (f *fakeFileStore) Save(name string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.files[name] = string(data)
	return nil
}
func (f *fakeFileStore) Open(name string) (io.ReadCloser, error) {
	data, ok := f.files[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(data)), nil
}
func (f *fakeFileStore) Delete(name string) error {
	delete(f.files, name)
	return nil
}

func newTourismFixture(t *testing.T) (*crm.TourismUseCase, *fakeCustomerRepo, *fakeFileStore) {
	t.Helper()
	expiry := time.Now().AddDate(1, 0, 0)
	repo := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cli-1": {
			ID: "cli-1", CustomerCode: "CLI0001", CompanyName: "Hotel del Lago SA",
			IsActive: true, TourismRegime: true, TourismRegimeExpiry: &expiry,
		},
		"cli-2": {ID: "cli-2", CompanyName: "Ferretería Itá SRL", IsActive: true},
	}}
	files := &fakeFileStore{files: map[string]string{}}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return crm.NewTourismUseCase(repo, files, log), repo, files
}

func TestUploadPDF(t *testing.T) {
	uc, repo, files := newTourismFixture(t)

	content := "%PDF-1.7 resolución de turismo"
	err := uc.UploadPDF("cli-1", "resolucion.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "turismo_cli-1.pdf", repo.customers["cli-1"].TourismRegimePDF)
	assert.Equal(t, content, files.files["turismo_cli-1.pdf"], "la firma %PDF- leída se vuelve a escribir completa")
}

func TestUploadPDF_Rechazos(t *testing.T) {
	uc, _, files := newTourismFixture(t)
	content := "%PDF-1.7 x"

	err := uc.UploadPDF("cli-2", "r.pdf", "application/pdf", 10, strings.NewReader(content))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cliente sin régimen de turismo")

	err = uc.UploadPDF("cli-1", "r.docx", "application/msword", 10, strings.NewReader(content))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "content type incorrecto")

	err = uc.UploadPDF("cli-1", "r.pdf", "application/pdf", crm.MaxTourismPDFSize+1, strings.NewReader(content))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "archivo demasiado grande")

	err = uc.UploadPDF("cli-1", "r.pdf", "application/pdf", 10, strings.NewReader("no es pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin firma %PDF-")

	assert.Empty(t, files.files, "nada llegó al almacén")
}

func TestDownloadPDF(t *testing.T) {
	uc, _, _ := newTourismFixture(t)
	content := "%PDF-1.7 resolución"
	require.NoError(t, uc.UploadPDF("cli-1", "r.pdf", "application/pdf", int64(len(content)), strings.NewReader(content)))

	rc, name, err := uc.DownloadPDF("cli-1")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "turismo_cli-1.pdf", name)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, content, string(data))
}

func TestDownloadPDF_SinArchivo(t *testing.T) {
	uc, _, _ := newTourismFixture(t)
	_, _, err := uc.DownloadPDF("cli-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePDF(t *testing.T) {
	uc, repo, files := newTourismFixture(t)
	content := "%PDF-1.7 r"
	require.NoError(t, uc.UploadPDF("cli-1", "r.pdf", "application/pdf", int64(len(content)), strings.NewReader(content)))

	require.NoError(t, uc.DeletePDF("cli-1"))
	assert.Empty(t, repo.customers["cli-1"].TourismRegimePDF)
	assert.Empty(t, files.files)
	// Sin PDF acreditante el beneficio deja de aplicar.
	assert.False(t, repo.customers["cli-1"].TourismRegime)
	assert.Nil(t, repo.customers["cli-1"].TourismRegimeExpiry)

	assert.ErrorIs(t, uc.DeletePDF("cli-1"), domain.ErrNotFound, "segunda eliminación")
}

func TestListExpiring_FiltraPorVentana(t *testing.T) {
	uc, repo, _ := newTourismFixture(t)
	now := time.Now()
	in3 := now.AddDate(0, 0, 3)
	in30 := now.AddDate(0, 0, 30)
	repo.expiring = []*entity.Customer{
		{ID: "cli-1", CustomerCode: "CLI0001", CompanyName: "Hotel del Lago SA", TourismRegimeExpiry: &in3},
		{ID: "cli-9", CustomerCode: "CLI0009", CompanyName: "Posada Areguá", TourismRegimeExpiry: &in30},
	}

	out, err := uc.ListExpiring(now)
	require.NoError(t, err)
	require.Len(t, out, 1, "solo el que vence dentro de la ventana de aviso")
	assert.Equal(t, "cli-1", out[0].CustomerID)
	assert.Equal(t, 3, out[0].DaysRemaining)
}

func TestProcessExpiryNotifications_CuentaAvisos(t *testing.T) {
	uc, repo, _ := newTourismFixture(t)
	now := time.Now()
	in2 := now.AddDate(0, 0, 2)
	repo.expiring = []*entity.Customer{
		{ID: "cli-1", CompanyName: "Hotel del Lago SA", TourismRegimeExpiry: &in2},
	}

	n, err := uc.ProcessExpiryNotifications(now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
