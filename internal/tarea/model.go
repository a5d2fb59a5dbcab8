package tarea

import (
	"time"

	"gorm.io/gorm"
)

// Tarea es un pendiente ligado a una cotización o a un proyecto, con un
// responsable opcional del equipo.
type Tarea struct {
	gorm.Model
	Titulo      string `gorm:"not null" json:"titulo"`
	Descripcion string `json:"descripcion"`
	Completada  bool   `gorm:"default:false" json:"completada"`

	CotizacionID *uint `gorm:"index" json:"cotizacionId,omitempty"`
	ProyectoID   *uint `gorm:"index" json:"proyectoId,omitempty"`
	AsignadoID   *uint `gorm:"index" json:"asignadoId,omitempty"`

	FechaLimite *time.Time `json:"fechaLimite,omitempty"`
}
