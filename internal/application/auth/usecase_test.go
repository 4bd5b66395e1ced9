package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/resortes-api/internal/application/auth"
	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/domain"
	pkgjwt "github.com/jhoicas/resortes-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 30, Issuer: "resortes-test"}

func TestLogin_PINEnTextoPlano(t *testing.T) {
	uc := auth.NewAuthUseCase(auth.PINConfig{PIN: "4321"}, jwtCfg)

	out, err := uc.Login(dto.LoginRequest{PIN: "4321"})
	require.NoError(t, err)
	assert.Equal(t, 1800, out.ExpiresIn)

	_, role, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.RoleAdmin, role)

	_, err = uc.Login(dto.LoginRequest{PIN: "0000"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_PINConHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("9876"), bcrypt.MinCost)
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(auth.PINConfig{PIN: "ignorado", PINHash: string(hash)}, jwtCfg)

	_, err = uc.Login(dto.LoginRequest{PIN: "9876"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{PIN: "ignorado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_SinPINConfiguradoEstaCerrado(t *testing.T) {
	uc := auth.NewAuthUseCase(auth.PINConfig{}, jwtCfg)

	_, err := uc.Login(dto.LoginRequest{PIN: "1234"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_PINVacio(t *testing.T) {
	uc := auth.NewAuthUseCase(auth.PINConfig{PIN: "1234"}, jwtCfg)

	_, err := uc.Login(dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_IgnoraEspaciosAlrededorDelPIN(t *testing.T) {
	uc := auth.NewAuthUseCase(auth.PINConfig{PIN: " 4321\n"}, jwtCfg)

	_, err := uc.Login(dto.LoginRequest{PIN: "4321 \n"})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("9876"), bcrypt.MinCost)
	require.NoError(t, err)
	uc = auth.NewAuthUseCase(auth.PINConfig{PINHash: string(hash)}, jwtCfg)
	_, err = uc.Login(dto.LoginRequest{PIN: "\t9876\r\n"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{PIN: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
