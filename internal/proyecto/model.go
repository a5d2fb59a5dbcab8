package proyecto

import (
	"time"

	"github.com/estudio-habitar/api-cotizaciones/internal/archivo"
	"gorm.io/gorm"
)

// Proyecto es un trabajo aceptado del estudio. Suele nacer derivado de una
// cotización, copiando los datos de contacto y el punto medio de la banda
// como presupuesto total.
type Proyecto struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Nombre      string `gorm:"not null" json:"nombre"`
	Descripcion string `json:"descripcion"`

	ClienteNombre   string `json:"clienteNombre"`
	ClienteEmail    string `gorm:"index" json:"clienteEmail"`
	ClienteTelefono string `json:"clienteTelefono"`

	// Cotización de origen, si el proyecto fue derivado
	CotizacionID *uint `gorm:"index" json:"cotizacionId"`

	FechaInicio      *time.Time `json:"fechaInicio"`
	FechaEstimadaFin *time.Time `json:"fechaEstimadaFin"`

	PresupuestoTotal float64 `json:"presupuestoTotal"`

	// PorcentajeAvance se mantiene en [0,100] en el borde de la API
	PorcentajeAvance int `gorm:"default:0" json:"porcentajeAvance"`

	Estado  string `gorm:"size:50;default:'activo'" json:"estado"`
	EtapaID *uint  `gorm:"index" json:"etapaId"`

	Archivos []archivo.ArchivoProyecto `gorm:"foreignKey:ProyectoID" json:"archivos,omitempty"`
}

// ClampAvance acota el porcentaje al rango [0,100].
func ClampAvance(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
