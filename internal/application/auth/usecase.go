package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/domain"
	"github.com/jhoicas/resortes-api/pkg/jwt"
)

// adminSubject subject de los tokens de administración (no hay usuarios, solo un PIN).
const adminSubject = "admin-pin"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// PINConfig PIN de administración. PINHash (bcrypt) tiene prioridad sobre PIN.
type PINConfig struct {
	PIN     string
	PINHash string
}

// AuthUseCase valida el PIN de administración y emite el token con rol admin.
type AuthUseCase struct {
	pin    PINConfig
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(pin PINConfig, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{pin: pin, jwtCfg: jwtCfg}
}

// Login verifica el PIN y retorna el token. Sin PIN configurado la administración está cerrada
// (ErrForbidden); un PIN incorrecto es ErrUnauthorized. Se ignoran espacios y saltos de línea
// alrededor del PIN ingresado y del configurado.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	pin := strings.TrimSpace(in.PIN)
	required := strings.TrimSpace(uc.pin.PIN)
	if pin == "" {
		return nil, domain.NewValidationError([]string{"el PIN es obligatorio"})
	}
	hash := strings.TrimSpace(uc.pin.PINHash)
	switch {
	case hash != "":
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
			return nil, domain.ErrUnauthorized
		}
	case required != "":
		if subtle.ConstantTimeCompare([]byte(required), []byte(pin)) != 1 {
			return nil, domain.ErrUnauthorized
		}
	default:
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, adminSubject, jwt.RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresIn: uc.jwtCfg.ExpMinutes * 60}, nil
}
