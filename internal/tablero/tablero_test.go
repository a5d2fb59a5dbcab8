package tablero

import (
	"testing"

	"github.com/estudio-habitar/api-cotizaciones/internal/etapa"
)

type entidad struct {
	ID      uint
	EtapaID *uint
}

func ptr(v uint) *uint { return &v }

func TestAgruparEsParticion(t *testing.T) {
	etapas := []etapa.Etapa{
		{ID: 1, Nombre: "Nueva", Orden: 1},
		{ID: 2, Nombre: "En revisión", Orden: 2},
		{ID: 3, Nombre: "Aprobada", Orden: 3},
	}
	entidades := []entidad{
		{ID: 10, EtapaID: ptr(1)},
		{ID: 11, EtapaID: ptr(2)},
		{ID: 12, EtapaID: ptr(2)},
		{ID: 13, EtapaID: nil},     // sin asignar
		{ID: 14, EtapaID: ptr(99)}, // etapa inexistente
		{ID: 15, EtapaID: ptr(3)},
	}

	columnas := Agrupar(etapas, entidades, func(e entidad) *uint { return e.EtapaID })

	if len(columnas) != len(etapas)+1 {
		t.Fatalf("esperadas %d columnas (etapas + sin etapa), hay %d", len(etapas)+1, len(columnas))
	}

	// cada entidad en exactamente un balde; la unión es el conjunto completo
	vistos := map[uint]int{}
	total := 0
	for _, col := range columnas {
		for _, e := range col.Entradas {
			vistos[e.ID]++
			total++
		}
	}
	if total != len(entidades) {
		t.Fatalf("la unión de los baldes debe ser el conjunto completo: %d != %d", total, len(entidades))
	}
	for id, n := range vistos {
		if n != 1 {
			t.Errorf("la entidad %d aparece en %d baldes", id, n)
		}
	}

	// nulos e ids desconocidos caen en la columna sin etapa
	sinEtapa := columnas[len(columnas)-1]
	if sinEtapa.Etapa != nil {
		t.Fatal("la última columna debe ser la de sin etapa")
	}
	if len(sinEtapa.Entradas) != 2 {
		t.Errorf("esperadas 2 entidades sin etapa (nula e inexistente), hay %d", len(sinEtapa.Entradas))
	}

	// las columnas respetan el orden de las etapas
	if columnas[1].Etapa.Nombre != "En revisión" || len(columnas[1].Entradas) != 2 {
		t.Errorf("columna 'En revisión' incorrecta: %+v", columnas[1])
	}
}

func TestAgruparVacios(t *testing.T) {
	t.Run("sin etapas", func(t *testing.T) {
		columnas := Agrupar(nil, []entidad{{ID: 1}}, func(e entidad) *uint { return e.EtapaID })
		if len(columnas) != 1 || len(columnas[0].Entradas) != 1 {
			t.Fatalf("sin etapas todo cae en la columna sin etapa: %+v", columnas)
		}
	})

	t.Run("sin entidades", func(t *testing.T) {
		etapas := []etapa.Etapa{{ID: 1, Nombre: "Nueva"}}
		columnas := Agrupar(etapas, []entidad{}, func(e entidad) *uint { return e.EtapaID })
		if len(columnas) != 2 {
			t.Fatalf("esperadas 2 columnas, hay %d", len(columnas))
		}
		for _, col := range columnas {
			if len(col.Entradas) != 0 {
				t.Errorf("columnas vacías esperadas: %+v", col)
			}
		}
	})
}
