package etapa

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/estudio-habitar/api-cotizaciones/internal/eventos"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type crearEtapaRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Color       string `json:"color"`
	Orden       int    `json:"orden"`
}

type reordenarRequest struct {
	IDs []uint `json:"ids"`
}

// Handler encapsula DB, repository y el bus de eventos
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Bus        *eventos.Bus
}

func NewHandler(db *gorm.DB, bus *eventos.Bus) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Bus:        bus,
	}
}

// Listar trata GET /etapas/{tipo}
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tipo := mux.Vars(r)["tipo"]
	etapas, err := h.Repository.Listar(h.DB, tipo)
	if err != nil {
		if errors.Is(err, ErrTipoInvalido) {
			utils.ResponderError(w, http.StatusBadRequest, "tipo de etapa inválido")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar etapas")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, etapas)
}

// Crear trata POST /etapas/{tipo}
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	tipo := mux.Vars(r)["tipo"]

	var req crearEtapaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Nombre == "" {
		utils.ResponderError(w, http.StatusBadRequest, "el nombre es obligatorio")
		return
	}

	e := Etapa{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Color:       req.Color,
		Orden:       req.Orden,
	}
	if err := h.Repository.Crear(h.DB, tipo, &e); err != nil {
		if errors.Is(err, ErrTipoInvalido) {
			utils.ResponderError(w, http.StatusBadRequest, "tipo de etapa inválido")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al crear etapa")
		return
	}

	h.Bus.Publicar(r.Context(), tipo, eventos.Evento{Tipo: eventos.TipoInsert, Entidad: "etapa", ID: e.ID, Datos: e})
	utils.ResponderJSON(w, http.StatusCreated, e)
}

// Actualizar trata PUT /etapas/{tipo}/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	tipo := mux.Vars(r)["tipo"]
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var req crearEtapaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	e, err := h.Repository.Actualizar(h.DB, tipo, uint(id), &Etapa{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Color:       req.Color,
		Orden:       req.Orden,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ResponderError(w, http.StatusNotFound, "etapa no encontrada")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al actualizar etapa")
		return
	}

	h.Bus.Publicar(r.Context(), tipo, eventos.Evento{Tipo: eventos.TipoUpdate, Entidad: "etapa", ID: e.ID, Datos: e})
	utils.ResponderJSON(w, http.StatusOK, e)
}

// Eliminar trata DELETE /etapas/{tipo}/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	tipo := mux.Vars(r)["tipo"]
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	if err := h.Repository.Eliminar(h.DB, tipo, uint(id)); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al eliminar etapa")
		return
	}

	h.Bus.Publicar(r.Context(), tipo, eventos.Evento{Tipo: eventos.TipoDelete, Entidad: "etapa", ID: uint(id)})
	w.WriteHeader(http.StatusNoContent)
}

// Reordenar trata PUT /etapas/{tipo}/reordenar con la lista completa de ids
// en su nuevo orden.
func (h *Handler) Reordenar(w http.ResponseWriter, r *http.Request) {
	tipo := mux.Vars(r)["tipo"]

	var req reordenarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if len(req.IDs) == 0 {
		utils.ResponderError(w, http.StatusBadRequest, "la lista 'ids' no puede estar vacía")
		return
	}

	if err := h.Repository.Reordenar(h.DB, tipo, req.IDs); err != nil {
		if errors.Is(err, ErrTipoInvalido) {
			utils.ResponderError(w, http.StatusBadRequest, "tipo de etapa inválido")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al reordenar etapas")
		return
	}

	etapas, err := h.Repository.Listar(h.DB, tipo)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar etapas")
		return
	}
	h.Bus.Publicar(r.Context(), tipo, eventos.Evento{Tipo: eventos.TipoUpdate, Entidad: "etapas", Datos: etapas})
	utils.ResponderJSON(w, http.StatusOK, etapas)
}
