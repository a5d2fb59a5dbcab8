package comentario

import "gorm.io/gorm"

// Comentario pertenece a una cotización o a un proyecto, nunca a ambos.
// Las menciones @usuario extraídas del texto se guardan para que el panel
// pueda resaltarlas y notificar.
type Comentario struct {
	gorm.Model
	Texto        string   `gorm:"not null" json:"texto"`
	CotizacionID *uint    `gorm:"index" json:"cotizacionId,omitempty"`
	ProyectoID   *uint    `gorm:"index" json:"proyectoId,omitempty"`
	UsuarioID    *uint    `gorm:"index" json:"usuarioId,omitempty"`
	Menciones    []string `gorm:"type:jsonb;serializer:json" json:"menciones"`
}
