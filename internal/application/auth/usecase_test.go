package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/l10n-ch-billing/internal/application/auth"
	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
	"github.com/jhoicas/l10n-ch-billing/internal/domain"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	"github.com/jhoicas/l10n-ch-billing/pkg/jwt"
)

type memUsers struct {
	byID map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}
func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.byID[id], nil
}
func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) Update(_ context.Context, u *entity.User) error { m.byID[u.ID] = u; return nil }
func (m *memUsers) ListByCompany(context.Context, string, int, int) ([]*entity.User, error) {
	return nil, nil
}

type memCompanies struct {
	companies map[string]*entity.Company
}

func (m *memCompanies) Create(context.Context, *entity.Company) error { return nil }
func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.companies[id], nil
}
func (m *memCompanies) Update(context.Context, *entity.Company) error { return nil }
func (m *memCompanies) List(context.Context, int, int) ([]*entity.Company, error) {
	return nil, nil
}
func (m *memCompanies) HasActiveModule(context.Context, string, string) (bool, error) {
	return false, nil
}
func (m *memCompanies) UpsertModule(context.Context, *entity.CompanyModule) error { return nil }
func (m *memCompanies) ListModules(context.Context, string) ([]*entity.CompanyModule, error) {
	return nil, nil
}

const companyID = "5b0c7a4e-4c4a-4a52-9a6b-1d1f3c1d2e3f"

func newUseCase() *auth.AuthUseCase {
	users := &memUsers{byID: map[string]*entity.User{}}
	companies := &memCompanies{companies: map[string]*entity.Company{
		companyID: {ID: companyID, Name: "Muster AG", CountryCode: "CH"},
	}}
	return auth.NewAuthUseCase(users, companies, auth.JWTConfig{Secret: "s3cr3t", ExpMinutes: 5, Issuer: "test"})
}

func TestRegisterUser_DefaultsToViewer(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "anna@example.ch", Password: "passwort123", CompanyID: companyID})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, u.Role)
	assert.Equal(t, "anna@example.ch", u.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "anna@example.ch", Password: "passwort123", CompanyID: companyID})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_RolDesconocido(t *testing.T) {
	_, err := newUseCase().RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "lager@example.ch", Password: "passwort123", CompanyID: companyID, Role: "bodeguero",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_UnknownCompany(t *testing.T) {
	_, err := newUseCase().RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "x@example.ch", Password: "passwort123", CompanyID: "00000000-0000-0000-0000-000000000000",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email: "buchhaltung@example.ch", Password: "passwort123", CompanyID: companyID, Role: entity.RoleAccountant,
	})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "buchhaltung@example.ch", Password: "passwort123"})
	require.NoError(t, err)
	sess, err := jwt.Parse("s3cr3t", res.Token)
	require.NoError(t, err)
	assert.Equal(t, companyID, sess.CompanyID)
	assert.Equal(t, entity.RoleAccountant, sess.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "buchhaltung@example.ch", Password: "falsch"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.ch", Password: "passwort123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
