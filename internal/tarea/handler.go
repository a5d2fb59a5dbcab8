package tarea

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type crearTareaRequest struct {
	Titulo       string     `json:"titulo"`
	Descripcion  string     `json:"descripcion"`
	CotizacionID *uint      `json:"cotizacionId"`
	ProyectoID   *uint      `json:"proyectoId"`
	AsignadoID   *uint      `json:"asignadoId"`
	FechaLimite  *time.Time `json:"fechaLimite"`
}

type actualizarTareaRequest struct {
	Titulo      *string    `json:"titulo"`
	Descripcion *string    `json:"descripcion"`
	Completada  *bool      `json:"completada"`
	AsignadoID  *uint      `json:"asignadoId"`
	FechaLimite *time.Time `json:"fechaLimite"`
}

// Handler encapsula DB y repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

// Crear trata POST /tareas
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req crearTareaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Titulo) == "" {
		utils.ResponderError(w, http.StatusBadRequest, "el título es obligatorio")
		return
	}
	if (req.CotizacionID == nil) == (req.ProyectoID == nil) {
		utils.ResponderError(w, http.StatusBadRequest, "la tarea debe referir a una cotización o a un proyecto")
		return
	}

	t := Tarea{
		Titulo:       req.Titulo,
		Descripcion:  req.Descripcion,
		CotizacionID: req.CotizacionID,
		ProyectoID:   req.ProyectoID,
		AsignadoID:   req.AsignadoID,
		FechaLimite:  req.FechaLimite,
	}
	if err := h.Repository.Crear(h.DB, &t); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al guardar la tarea")
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, t)
}

// ListarPorCotizacion trata GET /cotizaciones/{id}/tareas
func (h *Handler) ListarPorCotizacion(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	tareas, err := h.Repository.ListarPorCotizacion(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar tareas")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, tareas)
}

// ListarPorProyecto trata GET /proyectos/{id}/tareas
func (h *Handler) ListarPorProyecto(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	tareas, err := h.Repository.ListarPorProyecto(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar tareas")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, tareas)
}

// Actualizar trata PUT /tareas/{id}. Campos omitidos mantienen su valor.
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	t, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ResponderError(w, http.StatusNotFound, "tarea no encontrada")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al buscar la tarea")
		return
	}

	var req actualizarTareaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Titulo != nil {
		if strings.TrimSpace(*req.Titulo) == "" {
			utils.ResponderError(w, http.StatusBadRequest, "el título no puede quedar vacío")
			return
		}
		t.Titulo = *req.Titulo
	}
	if req.Descripcion != nil {
		t.Descripcion = *req.Descripcion
	}
	if req.Completada != nil {
		t.Completada = *req.Completada
	}
	if req.AsignadoID != nil {
		t.AsignadoID = req.AsignadoID
	}
	if req.FechaLimite != nil {
		t.FechaLimite = req.FechaLimite
	}

	if err := h.Repository.Actualizar(h.DB, t); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al actualizar la tarea")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, t)
}

// AlternarCompletada trata PATCH /tareas/{id}/completada
func (h *Handler) AlternarCompletada(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	t, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ResponderError(w, http.StatusNotFound, "tarea no encontrada")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al buscar la tarea")
		return
	}

	t.Completada = !t.Completada
	if err := h.Repository.Actualizar(h.DB, t); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al actualizar la tarea")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, t)
}

// Eliminar trata DELETE /tareas/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.Repository.Eliminar(h.DB, uint(id)); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al eliminar la tarea")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
