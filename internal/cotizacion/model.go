package cotizacion

import (
	"time"

	"github.com/estudio-habitar/api-cotizaciones/internal/archivo"
	"gorm.io/gorm"
)

// Servicios que puede pedir el cliente en el formulario. "ambos" agrega un
// paso extra al asistente.
const (
	ServicioDiseno   = "diseño"
	ServicioBranding = "branding"
)

// Cotizacion es una solicitud de cotización enviada desde el asistente
// público. La banda de precios se calcula al enviar y sus cuatro campos se
// pueblan siempre juntos, con min ≤ max. Nunca se elimina en los flujos
// observados; los movimientos de etapa y las ediciones del panel la mutan.
type Cotizacion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	// Contacto
	Nombre   string `gorm:"not null" json:"nombre"`
	Email    string `gorm:"not null;index" json:"email"`
	Telefono string `json:"telefono"`

	// Servicios solicitados, en JSONB
	Servicios []string `gorm:"type:jsonb;serializer:json" json:"servicios"`

	// Descriptores del espacio (solo servicios de diseño)
	TipoEspacio      string  `json:"tipoEspacio"`
	AreaM2           float64 `json:"areaM2"`
	EstadoRenovacion string  `json:"estadoRenovacion"`
	Alcance          string  `gorm:"size:50" json:"alcance"`

	// Descriptores de marca (solo servicios de branding)
	NombreMarca      string `json:"nombreMarca"`
	RubroMarca       string `json:"rubroMarca"`
	DescripcionMarca string `json:"descripcionMarca"`

	Urgencia         string `gorm:"size:50;not null" json:"urgencia"`
	PresupuestoTexto string `json:"presupuestoTexto"`

	// Banda de precios calculada
	CotizacionUFMin  *float64 `json:"cotizacionUfMin"`
	CotizacionUFMax  *float64 `json:"cotizacionUfMax"`
	CotizacionCLPMin *float64 `json:"cotizacionClpMin"`
	CotizacionCLPMax *float64 `json:"cotizacionClpMax"`

	// Fase del ciclo de vida (texto libre) y columna actual del tablero.
	// EtapaID sin valor deja la cotización en el balde "sin etapa".
	Estado  string `gorm:"size:50;default:'nueva'" json:"estado"`
	EtapaID *uint  `gorm:"index" json:"etapaId"`

	Archivos []archivo.ArchivoCotizacion `gorm:"foreignKey:CotizacionID" json:"archivos,omitempty"`
}
