package notificacion

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/estudio-habitar/api-cotizaciones/internal/cotizacion"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"gorm.io/gorm"
)

type enviarCotizacionRequest struct {
	CotizacionID uint `json:"cotizacionId"`
}

type contactoRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Mensaje  string `json:"mensaje"`
}

type testEmailRequest struct {
	Destino string `json:"destino"`
}

// Handler expone los endpoints de correo. Todos degradan a una respuesta
// 200 con warning cuando el mailer no está configurado: el front decide
// qué mostrar, pero el flujo nunca se corta por falta de API key.
type Handler struct {
	DB           *gorm.DB
	Mailer       *Mailer
	Cotizaciones cotizacion.Repository
}

func NewHandler(db *gorm.DB, mailer *Mailer) *Handler {
	return &Handler{
		DB:           db,
		Mailer:       mailer,
		Cotizaciones: cotizacion.NewRepository(),
	}
}

func (h *Handler) responderNoConfigurado(w http.ResponseWriter) {
	utils.ResponderJSON(w, http.StatusOK, utils.Respuesta{
		Success: false,
		Warning: "servicio de correo no configurado; el envío fue omitido",
	})
}

// EnviarCotizacion trata POST /api/enviar-cotizacion: reenvía la
// confirmación completa de una cotización ya guardada.
func (h *Handler) EnviarCotizacion(w http.ResponseWriter, r *http.Request) {
	var req enviarCotizacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CotizacionID == 0 {
		utils.ResponderError(w, http.StatusBadRequest, "cotizacionId es obligatorio")
		return
	}

	c, err := h.Cotizaciones.BuscarPorID(h.DB, req.CotizacionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al buscar la cotización")
		return
	}

	id, err := h.Mailer.EnviarConfirmacion(r.Context(), c)
	if err != nil {
		if errors.Is(err, ErrNoConfigurado) {
			h.responderNoConfigurado(w)
			return
		}
		utils.ResponderError(w, http.StatusBadGateway, "error al enviar el correo", err.Error())
		return
	}
	utils.ResponderExito(w, http.StatusOK, map[string]string{"emailId": id})
}

// EnviarRespaldo trata POST /api/send-email: versión en texto plano que se
// usa cuando la plantilla principal falla.
func (h *Handler) EnviarRespaldo(w http.ResponseWriter, r *http.Request) {
	var req enviarCotizacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CotizacionID == 0 {
		utils.ResponderError(w, http.StatusBadRequest, "cotizacionId es obligatorio")
		return
	}

	c, err := h.Cotizaciones.BuscarPorID(h.DB, req.CotizacionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al buscar la cotización")
		return
	}

	id, err := h.Mailer.EnviarConfirmacionRespaldo(r.Context(), c)
	if err != nil {
		if errors.Is(err, ErrNoConfigurado) {
			h.responderNoConfigurado(w)
			return
		}
		utils.ResponderError(w, http.StatusBadGateway, "error al enviar el correo", err.Error())
		return
	}
	utils.ResponderExito(w, http.StatusOK, map[string]string{"emailId": id})
}

// Contacto trata POST /api/contacto: formulario público de contacto.
func (h *Handler) Contacto(w http.ResponseWriter, r *http.Request) {
	var req contactoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Nombre) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Mensaje) == "" {
		utils.ResponderError(w, http.StatusBadRequest, "nombre, email y mensaje son obligatorios")
		return
	}

	id, err := h.Mailer.EnviarContacto(r.Context(), req.Nombre, req.Email, req.Telefono, req.Mensaje)
	if err != nil {
		if errors.Is(err, ErrNoConfigurado) {
			h.responderNoConfigurado(w)
			return
		}
		utils.ResponderError(w, http.StatusBadGateway, "error al enviar el mensaje", err.Error())
		return
	}
	utils.ResponderExito(w, http.StatusOK, map[string]string{"emailId": id})
}

// TestEmail trata POST /api/test-email: manda la plantilla de confirmación
// con datos de ejemplo para revisar el render en un correo real.
func (h *Handler) TestEmail(w http.ResponseWriter, r *http.Request) {
	var req testEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Destino) == "" {
		utils.ResponderError(w, http.StatusBadRequest, "destino es obligatorio")
		return
	}

	ufMin, ufMax := 126.0, 154.0
	clpMin, clpMax := ufMin*38500, ufMax*38500
	ejemplo := &cotizacion.Cotizacion{
		Nombre:           "Prueba",
		Email:            req.Destino,
		Servicios:        []string{cotizacion.ServicioDiseno},
		Urgencia:         "1-3 meses",
		CotizacionUFMin:  &ufMin,
		CotizacionUFMax:  &ufMax,
		CotizacionCLPMin: &clpMin,
		CotizacionCLPMax: &clpMax,
	}

	id, err := h.Mailer.EnviarConfirmacion(r.Context(), ejemplo)
	if err != nil {
		if errors.Is(err, ErrNoConfigurado) {
			h.responderNoConfigurado(w)
			return
		}
		utils.ResponderError(w, http.StatusBadGateway, "error al enviar el correo", err.Error())
		return
	}
	utils.ResponderExito(w, http.StatusOK, map[string]string{"emailId": id})
}

// TestEmailSimple trata POST /api/test-email-simple: igual que TestEmail
// pero con el camino de respaldo en texto plano.
func (h *Handler) TestEmailSimple(w http.ResponseWriter, r *http.Request) {
	var req testEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Destino) == "" {
		utils.ResponderError(w, http.StatusBadRequest, "destino es obligatorio")
		return
	}

	ejemplo := &cotizacion.Cotizacion{Nombre: "Prueba", Email: req.Destino}
	id, err := h.Mailer.EnviarConfirmacionRespaldo(r.Context(), ejemplo)
	if err != nil {
		if errors.Is(err, ErrNoConfigurado) {
			h.responderNoConfigurado(w)
			return
		}
		utils.ResponderError(w, http.StatusBadGateway, "error al enviar el correo", err.Error())
		return
	}
	utils.ResponderExito(w, http.StatusOK, map[string]string{"emailId": id})
}
