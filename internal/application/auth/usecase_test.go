package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisas-salud/sisas-api/internal/application/auth"
	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	pkgjwt "github.com/sisas-salud/sisas-api/pkg/jwt"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.byEmail[u.Email] = u
	return nil
}
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.byEmail[email], nil
}
func (r *fakeUserRepo) List(int, int) ([]*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) Update(*entity.User) error             { return nil }
func (r *fakeUserRepo) CountByActive() (int64, int64, error)  { return 0, 0, nil }

func newAuthUC(repo *fakeUserRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "secret-de-test",
		ExpMinutes: 60,
		Issuer:     "sisas-test",
	})
}

func TestRegisterUser_RolPorDefectoConsultor(t *testing.T) {
	uc := newAuthUC(newFakeUserRepo())

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@salud.gob.gt", Password: "contrasena-larga",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleConsultor, out.Role)
	assert.Equal(t, "ana@salud.gob.gt", out.Name, "sin nombre se usa el email")
	assert.True(t, out.Active)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc := newAuthUC(newFakeUserRepo())
	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@salud.gob.gt", Password: "contrasena-larga", Role: "superadmin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := newAuthUC(newFakeUserRepo())
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@salud.gob.gt", Password: "contrasena-larga"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@salud.gob.gt", Password: "otra-contrasena"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_TokenLlevaRolYMunicipio(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)
	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@salud.gob.gt", Password: "contrasena-larga",
		Name: "Ana", Role: entity.RoleUsuario, Municipality: "Sololá",
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@salud.gob.gt", Password: "contrasena-larga"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	sub, err := pkgjwt.Parse("secret-de-test", out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUsuario, sub.Role)
	assert.Equal(t, "Sololá", sub.Municipality)
	assert.Equal(t, "Ana", sub.Name)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@salud.gob.gt", Password: "contrasena-larga"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@salud.gob.gt", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newAuthUC(newFakeUserRepo())
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@salud.gob.gt", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@salud.gob.gt", Password: "contrasena-larga"})
	require.NoError(t, err)
	repo.byEmail["ana@salud.gob.gt"].Active = false

	_, err = uc.Login(dto.LoginRequest{Email: "ana@salud.gob.gt", Password: "contrasena-larga"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
