package proyecto

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/estudio-habitar/api-cotizaciones/internal/archivo"
	"github.com/estudio-habitar/api-cotizaciones/internal/calculo"
	"github.com/estudio-habitar/api-cotizaciones/internal/cotizacion"
	"github.com/estudio-habitar/api-cotizaciones/internal/etapa"
	"github.com/estudio-habitar/api-cotizaciones/internal/eventos"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type crearProyectoRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`

	ClienteNombre   string `json:"clienteNombre"`
	ClienteEmail    string `json:"clienteEmail"`
	ClienteTelefono string `json:"clienteTelefono"`

	CotizacionID   *uint `json:"cotizacionId"`
	CopiarArchivos bool  `json:"copiarArchivos"`

	FechaInicio      *time.Time `json:"fechaInicio"`
	FechaEstimadaFin *time.Time `json:"fechaEstimadaFin"`

	PresupuestoTotal *float64 `json:"presupuestoTotal"`
	PorcentajeAvance int      `json:"porcentajeAvance"`
	Estado           string   `json:"estado"`
	EtapaID          *uint    `json:"etapaId"`
}

// Handler encapsula DB, repositories y colaboradores.
type Handler struct {
	DB           *gorm.DB
	Repository   Repository
	Cotizaciones cotizacion.Repository
	Etapas       etapa.Repository
	Archivos     archivo.Repository
	Bus          *eventos.Bus
}

func NewHandler(db *gorm.DB, bus *eventos.Bus) *Handler {
	return &Handler{
		DB:           db,
		Repository:   NewRepository(),
		Cotizaciones: cotizacion.NewRepository(),
		Etapas:       etapa.NewRepository(),
		Archivos:     archivo.NewRepository(),
		Bus:          bus,
	}
}

// Prefill trata GET /proyectos/prefill/{cotizacionId}: los campos sugeridos
// para el formulario de derivación.
func (h *Handler) Prefill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["cotizacionId"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	c, err := h.Cotizaciones.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
		return
	}

	var presupuesto float64
	if c.CotizacionUFMin != nil && c.CotizacionUFMax != nil {
		presupuesto = calculo.PresupuestoMedio(*c.CotizacionUFMin, *c.CotizacionUFMax)
	}

	utils.ResponderExito(w, http.StatusOK, map[string]any{
		"clienteNombre":    c.Nombre,
		"clienteEmail":     c.Email,
		"clienteTelefono":  c.Telefono,
		"presupuestoTotal": presupuesto,
		"cotizacionId":     c.ID,
		"archivos":         len(c.Archivos),
	})
}

// Crear trata POST /proyectos. Con cotizacionId presente completa los campos
// de contacto y presupuesto vacíos desde la cotización de origen; con
// copiarArchivos duplica las referencias de archivo (misma URL, sin
// re-subir). La copia es de mejor esfuerzo: si falla a mitad de camino, el
// proyecto ya existe con las referencias alcanzadas.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req crearProyectoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Nombre) == "" {
		utils.ResponderError(w, http.StatusBadRequest, "el nombre es obligatorio")
		return
	}

	p := Proyecto{
		Nombre:           strings.TrimSpace(req.Nombre),
		Descripcion:      req.Descripcion,
		ClienteNombre:    req.ClienteNombre,
		ClienteEmail:     req.ClienteEmail,
		ClienteTelefono:  req.ClienteTelefono,
		CotizacionID:     req.CotizacionID,
		FechaInicio:      req.FechaInicio,
		FechaEstimadaFin: req.FechaEstimadaFin,
		PorcentajeAvance: ClampAvance(req.PorcentajeAvance),
		Estado:           req.Estado,
		EtapaID:          req.EtapaID,
	}
	if p.Estado == "" {
		p.Estado = "activo"
	}
	if req.PresupuestoTotal != nil {
		p.PresupuestoTotal = *req.PresupuestoTotal
	}

	if req.CotizacionID != nil {
		c, err := h.Cotizaciones.BuscarPorID(h.DB, *req.CotizacionID)
		if err != nil {
			utils.ResponderError(w, http.StatusNotFound, "cotización de origen no encontrada")
			return
		}
		if p.ClienteNombre == "" {
			p.ClienteNombre = c.Nombre
		}
		if p.ClienteEmail == "" {
			p.ClienteEmail = c.Email
		}
		if p.ClienteTelefono == "" {
			p.ClienteTelefono = c.Telefono
		}
		if req.PresupuestoTotal == nil && c.CotizacionUFMin != nil && c.CotizacionUFMax != nil {
			p.PresupuestoTotal = calculo.PresupuestoMedio(*c.CotizacionUFMin, *c.CotizacionUFMax)
		}
	}

	// Columna inicial del tablero por defecto
	if p.EtapaID == nil {
		if primera, err := h.Etapas.Primera(h.DB, etapa.TipoProyecto); err == nil {
			p.EtapaID = &primera.ID
		}
	}

	if err := h.Repository.Salvar(h.DB, &p); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al guardar el proyecto")
		return
	}

	if req.CopiarArchivos && req.CotizacionID != nil {
		if n, err := h.Archivos.CopiarACotizacionProyecto(h.DB, *req.CotizacionID, p.ID); err != nil {
			log.Printf("proyecto %d: copia de archivos incompleta (%d copiados): %v", p.ID, n, err)
		}
	}

	h.Bus.Publicar(r.Context(), "proyectos", eventos.Evento{Tipo: eventos.TipoInsert, Entidad: "proyecto", ID: p.ID, Datos: p})
	utils.ResponderJSON(w, http.StatusCreated, p)
}

// Listar trata GET /proyectos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	proyectos, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar proyectos")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, proyectos)
}

// BuscarPorID trata GET /proyectos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "proyecto no encontrado")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, p)
}

// Actualizar trata PUT /proyectos/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "proyecto no encontrado")
		return
	}

	var req crearProyectoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	existente.Nombre = req.Nombre
	existente.Descripcion = req.Descripcion
	existente.ClienteNombre = req.ClienteNombre
	existente.ClienteEmail = req.ClienteEmail
	existente.ClienteTelefono = req.ClienteTelefono
	existente.FechaInicio = req.FechaInicio
	existente.FechaEstimadaFin = req.FechaEstimadaFin
	if req.PresupuestoTotal != nil {
		existente.PresupuestoTotal = *req.PresupuestoTotal
	}
	existente.PorcentajeAvance = ClampAvance(req.PorcentajeAvance)
	if req.Estado != "" {
		existente.Estado = req.Estado
	}

	if err := h.Repository.Actualizar(h.DB, existente); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al actualizar el proyecto")
		return
	}

	h.Bus.Publicar(r.Context(), "proyectos", eventos.Evento{Tipo: eventos.TipoUpdate, Entidad: "proyecto", ID: existente.ID, Datos: existente})
	utils.ResponderJSON(w, http.StatusOK, existente)
}

// Eliminar trata DELETE /proyectos/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.Repository.Eliminar(h.DB, uint(id)); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al eliminar el proyecto")
		return
	}
	h.Bus.Publicar(r.Context(), "proyectos", eventos.Evento{Tipo: eventos.TipoDelete, Entidad: "proyecto", ID: uint(id)})
	w.WriteHeader(http.StatusNoContent)
}

// MoverEtapa trata PATCH /proyectos/{id}/etapa
func (h *Handler) MoverEtapa(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var req struct {
		EtapaID *uint `json:"etapaId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if err := h.Repository.MoverEtapa(h.DB, uint(id), req.EtapaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ResponderError(w, http.StatusNotFound, "proyecto no encontrado")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al mover el proyecto")
		return
	}

	h.Bus.Publicar(r.Context(), "proyectos", eventos.Evento{
		Tipo: eventos.TipoUpdate, Entidad: "proyecto", ID: uint(id),
		Datos: map[string]any{"etapaId": req.EtapaID},
	})
	utils.ResponderExito(w, http.StatusOK, map[string]any{"etapaId": req.EtapaID})
}
