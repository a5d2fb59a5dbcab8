package proyecto

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/estudio-habitar/api-cotizaciones/internal/archivo"
	"github.com/estudio-habitar/api-cotizaciones/internal/cotizacion"
	"github.com/estudio-habitar/api-cotizaciones/internal/etapa"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("abrir sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&cotizacion.Cotizacion{},
		&Proyecto{},
		&archivo.ArchivoCotizacion{},
		&archivo.ArchivoProyecto{},
	); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	if err := etapa.Migrate(db); err != nil {
		t.Fatalf("migrar etapas: %v", err)
	}
	return db
}

func sembrarCotizacion(t *testing.T, db *gorm.DB) *cotizacion.Cotizacion {
	t.Helper()
	min, max := 126.00, 154.00
	clpMin, clpMax := min*38500, max*38500
	c := cotizacion.Cotizacion{
		Nombre:           "Carla Rojas",
		Email:            "carla@ejemplo.cl",
		Telefono:         "+56 9 1234 5678",
		Urgencia:         "1-3 meses",
		CotizacionUFMin:  &min,
		CotizacionUFMax:  &max,
		CotizacionCLPMin: &clpMin,
		CotizacionCLPMax: &clpMax,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("sembrar cotización: %v", err)
	}
	for _, nombre := range []string{"plano.pdf", "referencia.jpg"} {
		a := archivo.ArchivoCotizacion{
			CotizacionID: c.ID,
			URL:          "http://minio/adjuntos/1/1-" + nombre,
			Nombre:       nombre,
		}
		if err := db.Create(&a).Error; err != nil {
			t.Fatalf("sembrar archivo: %v", err)
		}
	}
	return &c
}

func TestCrearDerivadoDeCotizacion(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, nil)

	// etapas de proyecto para el default de columna inicial
	repoEtapas := etapa.NewRepository()
	planificacion := etapa.Etapa{Nombre: "Planificación"}
	if err := repoEtapas.Crear(db, etapa.TipoProyecto, &planificacion); err != nil {
		t.Fatalf("crear etapa: %v", err)
	}
	repoEtapas.Crear(db, etapa.TipoProyecto, &etapa.Etapa{Nombre: "En obra"})

	c := sembrarCotizacion(t, db)

	router := mux.NewRouter()
	router.HandleFunc("/proyectos", h.Crear).Methods("POST")

	body, _ := json.Marshal(map[string]any{
		"nombre":         "Depto Las Condes",
		"cotizacionId":   c.ID,
		"copiarArchivos": true,
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/proyectos", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("esperado 201, obtenido %d: %s", rec.Code, rec.Body.String())
	}

	var p Proyecto
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("respuesta inválida: %v", err)
	}

	if p.ClienteEmail != c.Email {
		t.Errorf("clienteEmail esperado %q, obtenido %q", c.Email, p.ClienteEmail)
	}
	if p.ClienteNombre != c.Nombre || p.ClienteTelefono != c.Telefono {
		t.Errorf("los datos de contacto deben copiarse de la cotización: %+v", p)
	}
	// presupuesto = punto medio de la banda
	if p.PresupuestoTotal != 140.00 {
		t.Errorf("presupuestoTotal esperado 140.00, obtenido %v", p.PresupuestoTotal)
	}
	if p.EtapaID == nil || *p.EtapaID != planificacion.ID {
		t.Errorf("el proyecto debe nacer en la etapa de menor orden, tiene %v", p.EtapaID)
	}

	// referencias de archivo duplicadas: misma URL, tipo reclasificado
	archivos, err := archivo.NewRepository().ListarPorProyecto(db, p.ID)
	if err != nil {
		t.Fatalf("listar archivos: %v", err)
	}
	if len(archivos) != 2 {
		t.Fatalf("esperadas 2 referencias copiadas, hay %d", len(archivos))
	}
	tipos := map[string]string{}
	for _, a := range archivos {
		tipos[a.Nombre] = a.Tipo
		if a.URL == "" {
			t.Errorf("la copia debe conservar la URL original: %+v", a)
		}
	}
	if tipos["plano.pdf"] != "pdf" || tipos["referencia.jpg"] != "imagen" {
		t.Errorf("clasificación por extensión incorrecta: %v", tipos)
	}
}

func TestCrearSinCotizacionNoExigeOrigen(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, nil)

	router := mux.NewRouter()
	router.HandleFunc("/proyectos", h.Crear).Methods("POST")

	body, _ := json.Marshal(map[string]any{
		"nombre":           "Proyecto directo",
		"clienteNombre":    "Luis",
		"clienteEmail":     "luis@ejemplo.cl",
		"presupuestoTotal": 200.0,
		"porcentajeAvance": 150, // fuera de rango: debe acotarse
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/proyectos", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("esperado 201, obtenido %d", rec.Code)
	}
	var p Proyecto
	_ = json.Unmarshal(rec.Body.Bytes(), &p)
	if p.PorcentajeAvance != 100 {
		t.Errorf("el avance debe acotarse a 100, obtenido %d", p.PorcentajeAvance)
	}
	if p.CotizacionID != nil {
		t.Errorf("sin origen no debe quedar referencia: %v", p.CotizacionID)
	}
	if p.EtapaID != nil {
		t.Errorf("sin etapas definidas el proyecto queda sin etapa, tiene %v", p.EtapaID)
	}
}

func TestClampAvance(t *testing.T) {
	casos := map[int]int{-5: 0, 0: 0, 55: 55, 100: 100, 180: 100}
	for in, esperado := range casos {
		if got := ClampAvance(in); got != esperado {
			t.Errorf("ClampAvance(%d) = %d, esperado %d", in, got, esperado)
		}
	}
}
