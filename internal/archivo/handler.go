package archivo

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/estudio-habitar/api-cotizaciones/internal/eventos"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const maxSubida = 25 << 20 // 25 MiB por request

// Handler encapsula DB, repository, almacén de objetos y bus de eventos.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Almacen    Almacen
	Bus        *eventos.Bus
}

func NewHandler(db *gorm.DB, almacen Almacen, bus *eventos.Bus) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Almacen:    almacen,
		Bus:        bus,
	}
}

type resultadoSubida struct {
	Subidos  any      `json:"subidos"`
	Omitidos []string `json:"omitidos,omitempty"`
}

// archivoSubido es un objeto ya almacenado, pendiente de registrar en la
// tabla que corresponda.
type archivoSubido struct {
	URL    string
	Nombre string
	Tipo   string
	Tamano int64
}

// subirMultipart sube cada parte del form "archivos" bajo la clave
// <id>/<timestamp>-<nombre>. Los fallos por archivo se registran en el log y
// se omiten; la carga parcial está permitida.
func (h *Handler) subirMultipart(r *http.Request, entidadID uint) ([]archivoSubido, []string, error) {
	if h.Almacen == nil {
		return nil, nil, fmt.Errorf("almacenamiento de objetos no configurado")
	}
	if err := r.ParseMultipartForm(maxSubida); err != nil {
		return nil, nil, fmt.Errorf("multipart inválido")
	}

	var subidos []archivoSubido
	var omitidos []string
	for _, fh := range r.MultipartForm.File["archivos"] {
		f, err := fh.Open()
		if err != nil {
			log.Printf("archivo: no se pudo abrir %q: %v", fh.Filename, err)
			omitidos = append(omitidos, fh.Filename)
			continue
		}

		key := fmt.Sprintf("%d/%d-%s", entidadID, time.Now().UnixMilli(), fh.Filename)
		url, err := h.Almacen.Subir(r.Context(), key, f, fh.Size, fh.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			log.Printf("archivo: fallo al subir %q: %v", fh.Filename, err)
			omitidos = append(omitidos, fh.Filename)
			continue
		}

		subidos = append(subidos, archivoSubido{
			URL:    url,
			Nombre: fh.Filename,
			Tipo:   utils.ClasificarTipoArchivo(fh.Filename),
			Tamano: fh.Size,
		})
	}
	return subidos, omitidos, nil
}

// SubirDeCotizacion trata POST /cotizaciones/{id}/archivos (multipart).
func (h *Handler) SubirDeCotizacion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	existe, err := h.Repository.ExisteCotizacion(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al verificar la cotización")
		return
	}
	if !existe {
		utils.ResponderError(w, http.StatusNotFound, "cotización no encontrada")
		return
	}

	subidos, omitidos, err := h.subirMultipart(r, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, err.Error())
		return
	}

	var filas []ArchivoCotizacion
	for _, s := range subidos {
		a := ArchivoCotizacion{CotizacionID: uint(id), URL: s.URL, Nombre: s.Nombre, Tipo: s.Tipo, Tamano: s.Tamano}
		if err := h.Repository.CrearDeCotizacion(h.DB, &a); err != nil {
			log.Printf("archivo: fallo al registrar %q: %v", s.Nombre, err)
			omitidos = append(omitidos, s.Nombre)
			continue
		}
		filas = append(filas, a)
	}

	h.Bus.Publicar(r.Context(), "cotizaciones", eventos.Evento{Tipo: eventos.TipoUpdate, Entidad: "cotizacion", ID: uint(id)})
	utils.ResponderJSON(w, http.StatusCreated, resultadoSubida{Subidos: filas, Omitidos: omitidos})
}

// SubirDeProyecto trata POST /proyectos/{id}/archivos (multipart).
func (h *Handler) SubirDeProyecto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	existe, err := h.Repository.ExisteProyecto(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al verificar el proyecto")
		return
	}
	if !existe {
		utils.ResponderError(w, http.StatusNotFound, "proyecto no encontrado")
		return
	}

	subidos, omitidos, err := h.subirMultipart(r, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusBadRequest, err.Error())
		return
	}

	var filas []ArchivoProyecto
	for _, s := range subidos {
		a := ArchivoProyecto{ProyectoID: uint(id), URL: s.URL, Nombre: s.Nombre, Tipo: s.Tipo, Tamano: s.Tamano}
		if err := h.Repository.CrearDeProyecto(h.DB, &a); err != nil {
			log.Printf("archivo: fallo al registrar %q: %v", s.Nombre, err)
			omitidos = append(omitidos, s.Nombre)
			continue
		}
		filas = append(filas, a)
	}

	h.Bus.Publicar(r.Context(), "proyectos", eventos.Evento{Tipo: eventos.TipoUpdate, Entidad: "proyecto", ID: uint(id)})
	utils.ResponderJSON(w, http.StatusCreated, resultadoSubida{Subidos: filas, Omitidos: omitidos})
}

// ListarDeCotizacion trata GET /cotizaciones/{id}/archivos
func (h *Handler) ListarDeCotizacion(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	archivos, err := h.Repository.ListarPorCotizacion(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar archivos")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, archivos)
}

// ListarDeProyecto trata GET /proyectos/{id}/archivos
func (h *Handler) ListarDeProyecto(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	archivos, err := h.Repository.ListarPorProyecto(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al listar archivos")
		return
	}
	utils.ResponderJSON(w, http.StatusOK, archivos)
}

// EliminarDeCotizacion trata DELETE /archivos/cotizacion/{id}. Borra el
// registro y, de mejor esfuerzo, el objeto subyacente.
func (h *Handler) EliminarDeCotizacion(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	a, err := h.Repository.EliminarDeCotizacion(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "archivo no encontrado")
		return
	}
	h.eliminarObjeto(r, a.URL)
	w.WriteHeader(http.StatusNoContent)
}

// EliminarDeProyecto trata DELETE /archivos/proyecto/{id}
func (h *Handler) EliminarDeProyecto(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	a, err := h.Repository.EliminarDeProyecto(h.DB, uint(id))
	if err != nil {
		utils.ResponderError(w, http.StatusNotFound, "archivo no encontrado")
		return
	}
	h.eliminarObjeto(r, a.URL)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) eliminarObjeto(r *http.Request, objURL string) {
	if h.Almacen == nil {
		return
	}
	key := claveDesdeURL(objURL)
	if key == "" {
		return
	}
	if err := h.Almacen.Eliminar(r.Context(), key); err != nil {
		log.Printf("archivo: no se pudo eliminar el objeto %s: %v", key, err)
	}
}

// claveDesdeURL recupera la clave <entityId>/<timestamp>-<archivo> desde la
// URL pública (los dos últimos segmentos del path).
func claveDesdeURL(objURL string) string {
	u, err := url.Parse(objURL)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 {
		return ""
	}
	return segs[len(segs)-2] + "/" + segs[len(segs)-1]
}
