package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// ErrSecretoNoConfigurado se devuelve si se intenta firmar o validar tokens
// antes de llamar a Configurar.
var ErrSecretoNoConfigurado = errors.New("JWT_SECRET no configurado")

// Configurar fija el secreto de firma. main la llama una vez al arrancar.
func Configurar(secreto string) error {
	if secreto == "" {
		return ErrSecretoNoConfigurado
	}
	jwtSecret = []byte(secreto)
	return nil
}

// Claims del token de sesión. La autoridad de administración viaja en el
// token emitido al iniciar sesión, no se re-deriva por página.
type Claims struct {
	UsuarioID uint `json:"usuarioId"`
	EsAdmin   bool `json:"esAdmin"`
	jwt.RegisteredClaims
}

// GenerarToken genera un JWT HS256 con validez de 24h.
func GenerarToken(usuarioID uint, esAdmin bool) (string, error) {
	if len(jwtSecret) == 0 {
		return "", ErrSecretoNoConfigurado
	}
	claims := &Claims{
		UsuarioID: usuarioID,
		EsAdmin:   esAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(usuarioID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidarToken valida el token y devuelve las claims.
func ValidarToken(tokenStr string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, ErrSecretoNoConfigurado
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token inválido o expirado: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("no fue posible extraer las claims")
	}
	return claims, nil
}
