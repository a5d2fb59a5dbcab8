package cotizacion

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/estudio-habitar/api-cotizaciones/internal/archivo"
	"github.com/estudio-habitar/api-cotizaciones/internal/calculo"
	"github.com/estudio-habitar/api-cotizaciones/internal/eventos"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Notificador es la ruta de confirmación por correo. La implementa el
// mailer transaccional; un envío fallido jamás bloquea el alta.
type Notificador interface {
	EnviarConfirmacion(ctx context.Context, c *Cotizacion) (string, error)
	EnviarConfirmacionRespaldo(ctx context.Context, c *Cotizacion) (string, error)
	Configurado() bool
}

// archivoRef es una referencia a un objeto ya subido que el asistente
// adjunta al enviar el formulario.
type archivoRef struct {
	URL    string `json:"url"`
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo"`
	Tamano int64  `json:"tamano"`
}

type crearCotizacionRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`

	Servicios []string `json:"servicios"`

	TipoEspacio      string  `json:"tipoEspacio"`
	AreaM2           float64 `json:"areaM2"`
	EstadoRenovacion string  `json:"estadoRenovacion"`
	Alcance          string  `json:"alcance"`

	NombreMarca      string `json:"nombreMarca"`
	RubroMarca       string `json:"rubroMarca"`
	DescripcionMarca string `json:"descripcionMarca"`

	Urgencia         string `json:"urgencia"`
	PresupuestoTexto string `json:"presupuestoTexto"`

	Archivos []archivoRef `json:"archivos"`
}

type moverEtapaRequest struct {
	EtapaID *uint `json:"etapaId"`
}

// Handler encapsula DB, repositories y colaboradores inyectados.
type Handler struct {
	DB          *gorm.DB
	Repository  Repository
	Archivos    archivo.Repository
	Notificador Notificador
	Bus         *eventos.Bus
}

func NewHandler(db *gorm.DB, notificador Notificador, bus *eventos.Bus) *Handler {
	return &Handler{
		DB:          db,
		Repository:  NewRepository(),
		Archivos:    archivo.NewRepository(),
		Notificador: notificador,
		Bus:         bus,
	}
}

// Crear trata POST /cotizaciones: el paso final del asistente público.
// Calcula la banda, persiste la cotización, registra los archivos adjuntos
// (fallos por archivo se omiten), intenta el correo de confirmación con
// respaldo y devuelve la estimación junto al id nuevo.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req crearCotizacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.TrimSpace(req.Email)
	if req.Nombre == "" || req.Email == "" || req.Urgencia == "" {
		utils.ResponderError(w, http.StatusBadRequest, "nombre, email y urgencia son obligatorios")
		return
	}

	c := Cotizacion{
		Nombre:           req.Nombre,
		Email:            req.Email,
		Telefono:         req.Telefono,
		Servicios:        req.Servicios,
		TipoEspacio:      req.TipoEspacio,
		AreaM2:           req.AreaM2,
		EstadoRenovacion: req.EstadoRenovacion,
		Alcance:          req.Alcance,
		NombreMarca:      req.NombreMarca,
		RubroMarca:       req.RubroMarca,
		DescripcionMarca: req.DescripcionMarca,
		Urgencia:         req.Urgencia,
		PresupuestoTexto: req.PresupuestoTexto,
		Estado:           "nueva",
	}
	if c.Servicios == nil {
		c.Servicios = []string{}
	}

	// La banda se calcula solo con un área real; las cuatro cotas se
	// asignan juntas o quedan todas sin valor.
	var est *calculo.Estimacion
	if req.AreaM2 > 0 {
		e := calculo.Calcular(req.AreaM2, req.Alcance, req.Urgencia)
		est = &e
		c.CotizacionUFMin = &e.UFMin
		c.CotizacionUFMax = &e.UFMax
		c.CotizacionCLPMin = &e.CLPMin
		c.CotizacionCLPMax = &e.CLPMax
	}

	if err := h.Repository.Salvar(h.DB, &c); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al guardar la cotización")
		return
	}

	// Registros de archivo: éxito parcial permitido.
	for _, ref := range req.Archivos {
		tipo := ref.Tipo
		if tipo == "" {
			tipo = utils.ClasificarTipoArchivo(ref.Nombre)
		}
		a := archivo.ArchivoCotizacion{
			CotizacionID: c.ID,
			URL:          ref.URL,
			Nombre:       ref.Nombre,
			Tipo:         tipo,
			Tamano:       ref.Tamano,
		}
		if err := h.Archivos.CrearDeCotizacion(h.DB, &a); err != nil {
			log.Printf("cotizacion %d: no se pudo registrar el archivo %q: %v", c.ID, ref.Nombre, err)
			continue
		}
		c.Archivos = append(c.Archivos, a)
	}

	// Confirmación por correo: vía primaria con respaldo; nunca bloquea.
	if h.Notificador != nil {
		if _, err := h.Notificador.EnviarConfirmacion(r.Context(), &c); err != nil {
			log.Printf("cotizacion %d: vía primaria de correo falló: %v", c.ID, err)
			if _, err := h.Notificador.EnviarConfirmacionRespaldo(r.Context(), &c); err != nil {
				log.Printf("cotizacion %d: vía de respaldo también falló: %v", c.ID, err)
			}
		}
	}

	h.Bus.Publicar(r.Context(), "cotizaciones", eventos.Evento{Tipo: eventos.TipoInsert, Entidad: "cotizacion", ID: c.ID, Datos: c})

	utils.ResponderJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"cotizacion": c,
		"estimacion": est,
	})
}

// Listar trata GET /cotizaciones
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	cotizaciones, err := h.Repository.ListarTodas(h.DB)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar cotizaciones")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, cotizaciones)
}

// BuscarPorID trata GET /cotizaciones/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, c)
}

// Actualizar trata PUT /cotizaciones/{id}: edición desde el panel. La banda
// calculada no se toca desde aquí.
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
		return
	}

	var req crearCotizacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	// Mismos obligatorios que en el alta: una edición no puede dejar la
	// cotización sin contacto ni urgencia.
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.TrimSpace(req.Email)
	if req.Nombre == "" || req.Email == "" || req.Urgencia == "" {
		utils.ResponderError(w, http.StatusBadRequest, "nombre, email y urgencia son obligatorios")
		return
	}

	existente.Nombre = req.Nombre
	existente.Email = req.Email
	existente.Telefono = req.Telefono
	if req.Servicios != nil {
		existente.Servicios = req.Servicios
	}
	existente.TipoEspacio = req.TipoEspacio
	existente.AreaM2 = req.AreaM2
	existente.EstadoRenovacion = req.EstadoRenovacion
	existente.Alcance = req.Alcance
	existente.NombreMarca = req.NombreMarca
	existente.RubroMarca = req.RubroMarca
	existente.DescripcionMarca = req.DescripcionMarca
	existente.Urgencia = req.Urgencia
	existente.PresupuestoTexto = req.PresupuestoTexto

	if err := h.Repository.Actualizar(h.DB, existente); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al actualizar la cotización")
		return
	}

	h.Bus.Publicar(r.Context(), "cotizaciones", eventos.Evento{Tipo: eventos.TipoUpdate, Entidad: "cotizacion", ID: existente.ID, Datos: existente})
	utils.ResponderJSON(w, http.StatusOK, existente)
}

// ActualizarEstado trata PATCH /cotizaciones/{id}/estado
func (h *Handler) ActualizarEstado(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var req struct {
		Estado string `json:"estado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Estado) == "" {
		utils.ResponderError(w, http.StatusBadRequest, "estado inválido")
		return
	}

	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
		return
	}
	c.Estado = strings.TrimSpace(req.Estado)
	if err := h.Repository.Actualizar(h.DB, c); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al actualizar el estado")
		return
	}

	h.Bus.Publicar(r.Context(), "cotizaciones", eventos.Evento{Tipo: eventos.TipoUpdate, Entidad: "cotizacion", ID: c.ID, Datos: c})
	utils.ResponderJSON(w, http.StatusOK, c)
}

// MoverEtapa trata PATCH /cotizaciones/{id}/etapa: el arrastre en el tablero.
// En caso de fallo el cliente muestra el error inline y no toca su estado
// local; no hay reintento automático.
func (h *Handler) MoverEtapa(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var req moverEtapaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if err := h.Repository.MoverEtapa(h.DB, uint(id), req.EtapaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al mover la cotización")
		return
	}

	h.Bus.Publicar(r.Context(), "cotizaciones", eventos.Evento{
		Tipo: eventos.TipoUpdate, Entidad: "cotizacion", ID: uint(id),
		Datos: map[string]any{"etapaId": req.EtapaID},
	})
	utils.ResponderExito(w, http.StatusOK, map[string]any{"etapaId": req.EtapaID})
}

// DatosPDF trata GET /cotizaciones/{id}/pdf: entrega todos los campos que
// el generador de PDF del cliente necesita.
func (h *Handler) DatosPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
		return
	}
	utils.ResponderExito(w, http.StatusOK, c)
}
