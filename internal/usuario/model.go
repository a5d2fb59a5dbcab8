package usuario

import (
	"time"

	"gorm.io/gorm"
)

// Usuario representa un miembro del equipo con acceso al panel.
type Usuario struct {
	gorm.Model
	Nombre string `json:"nombre"`
	Email  string `json:"email" gorm:"uniqueIndex"`
	Clave  string `json:"-"`
	Rol    string `json:"rol" gorm:"default:'admin'"`
	Activo bool   `json:"activo" gorm:"default:true"`
}

// TokenReset guarda el hash de un token de recuperación de clave.
// El token en claro viaja solo en el correo; acá queda su SHA-256.
type TokenReset struct {
	gorm.Model
	UsuarioID uint       `json:"usuarioId"`
	Hash      string     `json:"-" gorm:"uniqueIndex"`
	ExpiraEn  time.Time  `json:"expiraEn"`
	UsadoEn   *time.Time `json:"usadoEn"`
}

// Vigente informa si el token todavía puede usarse.
func (t *TokenReset) Vigente(ahora time.Time) bool {
	return t.UsadoEn == nil && ahora.Before(t.ExpiraEn)
}
