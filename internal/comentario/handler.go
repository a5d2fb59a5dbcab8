package comentario

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/estudio-habitar/api-cotizaciones/internal/auth"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type crearComentarioRequest struct {
	Texto        string `json:"texto"`
	CotizacionID *uint  `json:"cotizacionId"`
	ProyectoID   *uint  `json:"proyectoId"`
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

// Crear trata POST /comentarios
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req crearComentarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Texto) == "" {
		utils.ResponderError(w, http.StatusBadRequest, "el texto es obligatorio")
		return
	}
	if (req.CotizacionID == nil) == (req.ProyectoID == nil) {
		utils.ResponderError(w, http.StatusBadRequest, "el comentario debe referir a una cotización o a un proyecto")
		return
	}

	c := Comentario{
		Texto:        req.Texto,
		CotizacionID: req.CotizacionID,
		ProyectoID:   req.ProyectoID,
		Menciones:    ExtraerMenciones(req.Texto),
	}
	if usuarioID := auth.UsuarioDe(r); usuarioID != 0 {
		c.UsuarioID = &usuarioID
	}

	if err := h.Repository.Crear(h.DB, &c); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al guardar el comentario")
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, c)
}

// ListarPorCotizacion trata GET /cotizaciones/{id}/comentarios
func (h *Handler) ListarPorCotizacion(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	comentarios, err := h.Repository.ListarPorCotizacion(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar comentarios")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, comentarios)
}

// ListarPorProyecto trata GET /proyectos/{id}/comentarios
func (h *Handler) ListarPorProyecto(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	comentarios, err := h.Repository.ListarPorProyecto(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar comentarios")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, comentarios)
}

// Remover trata DELETE /comentarios/{id}
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.Repository.Remover(h.DB, uint(id)); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al eliminar el comentario")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
