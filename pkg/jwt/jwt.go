// Package jwt emite y valida los tokens de sesión de la API. El token lleva el usuario en sub,
// la empresa activa y el rol; el middleware RBAC decide con esos claims sin consultar la DB.
package jwt

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
)

var (
	ErrEmptySecret  = errors.New("jwt: secret vacío")
	ErrUnknownRole  = errors.New("jwt: rol desconocido")
	ErrMissingClaim = errors.New("jwt: falta usuario o empresa")
)

// Roles aceptados en el claim role.
var Roles = []string{entity.RoleAdmin, entity.RoleAccountant, entity.RoleViewer}

// Session lo que el token afirma de quien llama.
type Session struct {
	UserID    string
	CompanyID string
	Role      string
}

type claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Generate firma (HS256) un token para la sesión con vigencia ttl.
func Generate(secret, issuer string, ttl time.Duration, s Session) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if err := s.validate(); err != nil {
		return "", err
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyID: s.CompanyID,
		Role:      s.Role,
	})
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve la sesión. Un token con rol fuera de Roles
// o sin usuario o empresa no es válido aunque la firma lo sea.
func Parse(secret, tokenString string) (Session, error) {
	if secret == "" {
		return Session{}, ErrEmptySecret
	}
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, fmt.Errorf("jwt: %w", err)
	}
	s := Session{UserID: c.Subject, CompanyID: c.CompanyID, Role: c.Role}
	if err := s.validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (s Session) validate() error {
	if s.UserID == "" || s.CompanyID == "" {
		return ErrMissingClaim
	}
	if !slices.Contains(Roles, s.Role) {
		return fmt.Errorf("%w: %q", ErrUnknownRole, s.Role)
	}
	return nil
}
