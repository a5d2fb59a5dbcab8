package etapa

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("abrir sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrar etapas: %v", err)
	}
	return db
}

func TestCrearAsignaOrdenAlFinal(t *testing.T) {
	db := abrirDB(t)
	repo := NewRepository()

	nombres := []string{"Nueva", "En revisión", "Aprobada"}
	for _, n := range nombres {
		if err := repo.Crear(db, TipoCotizacion, &Etapa{Nombre: n}); err != nil {
			t.Fatalf("crear %q: %v", n, err)
		}
	}

	etapas, err := repo.Listar(db, TipoCotizacion)
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if len(etapas) != 3 {
		t.Fatalf("esperadas 3 etapas, hay %d", len(etapas))
	}
	for i, e := range etapas {
		if e.Orden != i+1 {
			t.Errorf("etapa %q con orden %d, esperado %d", e.Nombre, e.Orden, i+1)
		}
	}
}

func TestCrearIgnoraEtapasEliminadasAlAsignarOrden(t *testing.T) {
	db := abrirDB(t)
	repo := NewRepository()

	var ids []uint
	for _, n := range []string{"Nueva", "En revisión", "Aprobada"} {
		e := Etapa{Nombre: n}
		if err := repo.Crear(db, TipoCotizacion, &e); err != nil {
			t.Fatalf("crear %q: %v", n, err)
		}
		ids = append(ids, e.ID)
	}

	// borramos la última (orden 3) y creamos otra: debe ocupar el 3, no el 4
	if err := repo.Eliminar(db, TipoCotizacion, ids[2]); err != nil {
		t.Fatalf("eliminar: %v", err)
	}
	nueva := Etapa{Nombre: "Cerrada"}
	if err := repo.Crear(db, TipoCotizacion, &nueva); err != nil {
		t.Fatalf("crear: %v", err)
	}
	if nueva.Orden != 3 {
		t.Errorf("orden = %d, esperado 3: las etapas eliminadas no cuentan para el máximo", nueva.Orden)
	}
}

func TestTablasPorTipoSonIndependientes(t *testing.T) {
	db := abrirDB(t)
	repo := NewRepository()

	if err := repo.Crear(db, TipoCotizacion, &Etapa{Nombre: "Nueva"}); err != nil {
		t.Fatalf("crear: %v", err)
	}
	if err := repo.Crear(db, TipoProyecto, &Etapa{Nombre: "En obra"}); err != nil {
		t.Fatalf("crear: %v", err)
	}

	cot, _ := repo.Listar(db, TipoCotizacion)
	proy, _ := repo.Listar(db, TipoProyecto)
	if len(cot) != 1 || len(proy) != 1 {
		t.Fatalf("cada tipo debe ver solo sus etapas: cot=%d proy=%d", len(cot), len(proy))
	}
	if cot[0].Nombre != "Nueva" || proy[0].Nombre != "En obra" {
		t.Fatalf("etapas cruzadas entre tablas: %v / %v", cot[0].Nombre, proy[0].Nombre)
	}
}

func TestReordenarReescribeTodosLosOrdenes(t *testing.T) {
	db := abrirDB(t)
	repo := NewRepository()

	var ids []uint
	for _, n := range []string{"A", "B", "C"} {
		e := Etapa{Nombre: n}
		if err := repo.Crear(db, TipoProyecto, &e); err != nil {
			t.Fatalf("crear: %v", err)
		}
		ids = append(ids, e.ID)
	}

	// invertimos el tablero
	if err := repo.Reordenar(db, TipoProyecto, []uint{ids[2], ids[1], ids[0]}); err != nil {
		t.Fatalf("reordenar: %v", err)
	}

	etapas, err := repo.Listar(db, TipoProyecto)
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	esperado := []string{"C", "B", "A"}
	for i, e := range etapas {
		if e.Nombre != esperado[i] {
			t.Errorf("posición %d: esperado %q, obtenido %q (orden %d)", i, esperado[i], e.Nombre, e.Orden)
		}
		if e.Orden != i+1 {
			t.Errorf("el ranking debe quedar denso: %q tiene orden %d", e.Nombre, e.Orden)
		}
	}
}

func TestPrimeraDevuelveLaDeMenorOrden(t *testing.T) {
	db := abrirDB(t)
	repo := NewRepository()

	repo.Crear(db, TipoProyecto, &Etapa{Nombre: "Planificación"})
	repo.Crear(db, TipoProyecto, &Etapa{Nombre: "En obra"})

	primera, err := repo.Primera(db, TipoProyecto)
	if err != nil {
		t.Fatalf("primera: %v", err)
	}
	if primera.Nombre != "Planificación" {
		t.Errorf("esperada la etapa inicial, obtenida %q", primera.Nombre)
	}
}

func TestTipoInvalido(t *testing.T) {
	db := abrirDB(t)
	repo := NewRepository()

	if _, err := repo.Listar(db, "otracosa"); !errors.Is(err, ErrTipoInvalido) {
		t.Fatalf("esperado ErrTipoInvalido, obtenido %v", err)
	}
}
