package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sigepy/erp-api/internal/application/auth"
	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/pkg/jwt"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	f.byEmail[u.Email] = u
	return nil
}
func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

var testJWT = auth.JWTConfig{Secret: "secreto-de-test", ExpMinutes: 60, Issuer: "erp-api-test"}

func newAuthFixture() (*auth.AuthUseCase, *fakeUserRepo) {
	repo := &fakeUserRepo{byEmail: map[string]*entity.User{}}
	return auth.NewAuthUseCase(repo, testJWT), repo
}

func TestRegisterUser(t *testing.T) {
	uc, repo := newAuthFixture()

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@empresa.com.py",
		Password: "clave-segura-123",
		FullName: "Ana Benítez",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "ana@empresa.com.py", out.Email)
	assert.Equal(t, entity.RoleVendedor, out.Role, "rol por defecto")
	assert.False(t, out.CanManageDeposits)

	// El password se persiste hasheado, nunca plano.
	stored := repo.byEmail["ana@empresa.com.py"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-segura-123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura-123")))
}

func TestRegisterUser_AdminPuedeManejarDepositos(t *testing.T) {
	uc, _ := newAuthFixture()

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "admin@empresa.com.py",
		Password: "clave-segura-123",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)
	assert.True(t, out.CanManageDeposits)
	assert.Equal(t, "admin@empresa.com.py", out.FullName, "sin nombre usa el email")
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthFixture()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@empresa.com.py", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@empresa.com.py", Password: "otraclave"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc, _ := newAuthFixture()
	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "cajero@empresa.com.py",
		Password: "clave-segura-123",
		Role:     entity.RoleCajero,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "cajero@empresa.com.py", Password: "clave-segura-123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	// El token lleva usuario y rol para el RBAC del middleware.
	userID, role, err := jwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleCajero, role)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, repo := newAuthFixture()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@empresa.com.py", Password: "clave-segura-123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@empresa.com.py", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@empresa.com.py", Password: "clave-equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.byEmail["ana@empresa.com.py"].Status = "suspended"
	_, err = uc.Login(dto.LoginRequest{Email: "ana@empresa.com.py", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
