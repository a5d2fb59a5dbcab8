package tablero

import (
	"net/http"

	"github.com/estudio-habitar/api-cotizaciones/internal/cotizacion"
	"github.com/estudio-habitar/api-cotizaciones/internal/etapa"
	"github.com/estudio-habitar/api-cotizaciones/internal/proyecto"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"gorm.io/gorm"
)

// Handler arma los tableros y el resumen del panel a partir de los
// repositories de cada colección.
type Handler struct {
	DB           *gorm.DB
	Etapas       etapa.Repository
	Cotizaciones cotizacion.Repository
	Proyectos    proyecto.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:           db,
		Etapas:       etapa.NewRepository(),
		Cotizaciones: cotizacion.NewRepository(),
		Proyectos:    proyecto.NewRepository(),
	}
}

// TableroCotizaciones trata GET /tableros/cotizaciones
func (h *Handler) TableroCotizaciones(w http.ResponseWriter, r *http.Request) {
	etapas, err := h.Etapas.Listar(h.DB, etapa.TipoCotizacion)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al cargar etapas")
		return
	}
	cotizaciones, err := h.Cotizaciones.ListarTodas(h.DB)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al cargar cotizaciones")
		return
	}

	columnas := Agrupar(etapas, cotizaciones, func(c cotizacion.Cotizacion) *uint { return c.EtapaID })
	utils.ResponderJSON(w, http.StatusOK, columnas)
}

// TableroProyectos trata GET /tableros/proyectos
func (h *Handler) TableroProyectos(w http.ResponseWriter, r *http.Request) {
	etapas, err := h.Etapas.Listar(h.DB, etapa.TipoProyecto)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al cargar etapas")
		return
	}
	proyectos, err := h.Proyectos.ListarTodos(h.DB)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al cargar proyectos")
		return
	}

	columnas := Agrupar(etapas, proyectos, func(p proyecto.Proyecto) *uint { return p.EtapaID })
	utils.ResponderJSON(w, http.StatusOK, columnas)
}

// Resumen trata GET /resumen: los contadores y listas recientes de la
// portada del panel.
func (h *Handler) Resumen(w http.ResponseWriter, r *http.Request) {
	totalCotizaciones, err := h.Cotizaciones.Contar(h.DB)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al contar cotizaciones")
		return
	}
	totalProyectos, err := h.Proyectos.Contar(h.DB)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al contar proyectos")
		return
	}

	recientesCot, _ := h.Cotizaciones.Recientes(h.DB, 5)
	recientesProy, _ := h.Proyectos.Recientes(h.DB, 5)

	utils.ResponderExito(w, http.StatusOK, map[string]any{
		"totalCotizaciones":     totalCotizaciones,
		"totalProyectos":        totalProyectos,
		"cotizacionesRecientes": recientesCot,
		"proyectosRecientes":    recientesProy,
	})
}
