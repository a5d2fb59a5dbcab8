package usuario

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/estudio-habitar/api-cotizaciones/internal/auth"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// vigenciaTokenReset limita la ventana de recuperación de clave.
const vigenciaTokenReset = 1 * time.Hour

// MailerReset envía el correo de recuperación. Puede ser nil cuando
// el servicio de correo no está configurado.
type MailerReset interface {
	EnviarReset(destino, nombre, enlace string) error
}

type loginRequest struct {
	Email string `json:"email"`
	Clave string `json:"clave"`
}

type crearUsuarioRequest struct {
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Clave  string `json:"clave"`
	Rol    string `json:"rol"`
}

type actualizarUsuarioRequest struct {
	Nombre *string `json:"nombre"`
	Email  *string `json:"email"`
	Rol    *string `json:"rol"`
	Activo *bool   `json:"activo"`
}

type solicitarResetRequest struct {
	Email string `json:"email"`
}

type actualizarClaveRequest struct {
	Token string `json:"token"`
	Clave string `json:"clave"`
}

// Handler encapsula DB, repository y el mailer de recuperación
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Correo     MailerReset
	BaseURL    string
}

func NewHandler(db *gorm.DB, correo MailerReset, baseURL string) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Correo:     correo,
		BaseURL:    baseURL,
	}
}

// Login trata POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	u, err := h.Repository.BuscarPorEmail(h.DB, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !utils.CheckClave(u.Clave, req.Clave) {
		utils.ResponderError(w, http.StatusUnauthorized, "credenciales inválidas")
		return
	}
	if !u.Activo {
		utils.ResponderError(w, http.StatusForbidden, "usuario desactivado")
		return
	}

	token, err := auth.GenerarToken(u.ID, u.Rol == "admin")
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al generar el token")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"usuario": u,
	})
}

// Crear trata POST /usuarios. Sin clave en el request se genera una temporal.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req crearUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Nombre) == "" || strings.TrimSpace(req.Email) == "" {
		utils.ResponderError(w, http.StatusBadRequest, "nombre y email son obligatorios")
		return
	}

	clave := req.Clave
	var claveTemporal string
	if clave == "" {
		var err error
		claveTemporal, err = utils.GenerarClaveTemporal()
		if err != nil {
			utils.ResponderError(w, http.StatusInternalServerError, "error al generar la clave temporal")
			return
		}
		clave = claveTemporal
	}
	hash, err := utils.HashClave(clave)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al procesar la clave")
		return
	}

	u := Usuario{
		Nombre: req.Nombre,
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Clave:  hash,
		Rol:    req.Rol,
	}
	if u.Rol == "" {
		u.Rol = "admin"
	}
	u.Activo = true

	if err := h.Repository.Crear(h.DB, &u); err != nil {
		utils.ResponderError(w, http.StatusConflict, "no se pudo crear el usuario, ¿email repetido?")
		return
	}

	respuesta := map[string]interface{}{"usuario": u}
	if claveTemporal != "" {
		respuesta["claveTemporal"] = claveTemporal
	}
	utils.ResponderJSON(w, http.StatusCreated, respuesta)
}

// Listar trata GET /usuarios
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.Repository.Listar(h.DB)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar usuarios")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, usuarios)
}

// Actualizar trata PUT /usuarios/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	u, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ResponderError(w, http.StatusNotFound, "usuario no encontrado")
			return
		}
		utils.ResponderError(w, http.StatusInternalServerError, "error al buscar el usuario")
		return
	}

	var req actualizarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Nombre != nil {
		u.Nombre = *req.Nombre
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Rol != nil {
		u.Rol = *req.Rol
	}
	if req.Activo != nil {
		u.Activo = *req.Activo
	}

	if err := h.Repository.Actualizar(h.DB, u); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al actualizar el usuario")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, u)
}

// Eliminar trata DELETE /usuarios/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.Repository.Eliminar(h.DB, uint(id)); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al eliminar el usuario")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SolicitarReset trata POST /auth/recuperar. Responde 200 siempre para
// no revelar qué correos existen.
func (h *Handler) SolicitarReset(w http.ResponseWriter, r *http.Request) {
	var req solicitarResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	mensaje := "si el correo existe, enviamos un enlace de recuperación"

	u, err := h.Repository.BuscarPorEmail(h.DB, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !u.Activo {
		utils.ResponderExito(w, http.StatusOK, mensaje)
		return
	}

	token := uuid.NewString()
	registro := TokenReset{
		UsuarioID: u.ID,
		Hash:      hashToken(token),
		ExpiraEn:  time.Now().Add(vigenciaTokenReset),
	}
	if err := h.Repository.CrearTokenReset(h.DB, &registro); err != nil {
		log.Printf("reset: error al guardar token para usuario %d: %v", u.ID, err)
		utils.ResponderExito(w, http.StatusOK, mensaje)
		return
	}

	if h.Correo != nil {
		enlace := fmt.Sprintf("%s/recuperar?token=%s", strings.TrimRight(h.BaseURL, "/"), token)
		if err := h.Correo.EnviarReset(u.Email, u.Nombre, enlace); err != nil {
			log.Printf("reset: error al enviar correo a %s: %v", u.Email, err)
		}
	}
	utils.ResponderExito(w, http.StatusOK, mensaje)
}

// VerificarReset trata GET /auth/recuperar/{token}
func (h *Handler) VerificarReset(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	registro, err := h.Repository.BuscarTokenReset(h.DB, hashToken(token))
	if err != nil || !registro.Vigente(time.Now()) {
		utils.ResponderError(w, http.StatusBadRequest, "token inválido o vencido")
		return
	}
	utils.ResponderExito(w, http.StatusOK, "token válido")
}

// ActualizarClave trata POST /auth/recuperar/clave
func (h *Handler) ActualizarClave(w http.ResponseWriter, r *http.Request) {
	var req actualizarClaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if len(req.Clave) < 8 {
		utils.ResponderError(w, http.StatusBadRequest, "la clave debe tener al menos 8 caracteres")
		return
	}

	registro, err := h.Repository.BuscarTokenReset(h.DB, hashToken(req.Token))
	if err != nil || !registro.Vigente(time.Now()) {
		utils.ResponderError(w, http.StatusBadRequest, "token inválido o vencido")
		return
	}

	u, err := h.Repository.BuscarPorID(h.DB, registro.UsuarioID)
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "token inválido o vencido")
		return
	}
	hash, err := utils.HashClave(req.Clave)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al procesar la clave")
		return
	}
	u.Clave = hash

	if err := h.Repository.Actualizar(h.DB, u); err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al actualizar la clave")
		return
	}
	if err := h.Repository.MarcarTokenUsado(h.DB, registro); err != nil {
		log.Printf("reset: error al marcar token usado: %v", err)
	}
	utils.ResponderExito(w, http.StatusOK, "clave actualizada")
}

func hashToken(token string) string {
	suma := sha256.Sum256([]byte(token))
	return hex.EncodeToString(suma[:])
}
