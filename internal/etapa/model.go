package etapa

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Tipos de tablero. Hay una tabla de etapas por cada tipo de entidad.
const (
	TipoCotizacion = "cotizaciones"
	TipoProyecto   = "proyectos"
)

// Tablas paralelas, una por tipo.
const (
	TablaCotizacion = "etapas_cotizacion"
	TablaProyecto   = "etapas_proyecto"
)

var ErrTipoInvalido = errors.New("tipo de etapa inválido")

// Etapa es una columna de un tablero: nombre, color y posición. El orden es
// un ranking denso dentro de su tipo; los duplicados se toleran pero no
// significan nada.
type Etapa struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Nombre      string `gorm:"size:120;not null" json:"nombre"`
	Descripcion string `json:"descripcion"`
	Color       string `gorm:"size:20" json:"color"`
	Orden       int    `gorm:"not null;default:0;index" json:"orden"`
}

// TablaPorTipo traduce el tipo de tablero a su tabla.
func TablaPorTipo(tipo string) (string, error) {
	switch tipo {
	case TipoCotizacion:
		return TablaCotizacion, nil
	case TipoProyecto:
		return TablaProyecto, nil
	default:
		return "", ErrTipoInvalido
	}
}

// Migrate crea ambas tablas de etapas.
func Migrate(db *gorm.DB) error {
	if err := db.Table(TablaCotizacion).AutoMigrate(&Etapa{}); err != nil {
		return err
	}
	return db.Table(TablaProyecto).AutoMigrate(&Etapa{})
}
