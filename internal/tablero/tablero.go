package tablero

import "github.com/estudio-habitar/api-cotizaciones/internal/etapa"

// Columna es un balde del tablero: una etapa y las entidades que están en
// ella. La columna sin etapa agrupa las entidades con EtapaID nulo o
// apuntando a una etapa que ya no existe.
type Columna[T any] struct {
	Etapa    *etapa.Etapa `json:"etapa"` // nil para la columna sin etapa
	Entradas []T          `json:"entradas"`
}

// Agrupar particiona las entidades en una columna por etapa, en el orden del
// tablero, más la columna final "sin etapa". Toda entidad cae en exactamente
// un balde y la unión de los baldes es el conjunto completo, para cualquier
// asignación de EtapaID incluyendo nulos e ids desconocidos.
func Agrupar[T any](etapas []etapa.Etapa, entidades []T, etapaDe func(T) *uint) []Columna[T] {
	columnas := make([]Columna[T], len(etapas)+1)
	indice := make(map[uint]int, len(etapas))
	for i := range etapas {
		columnas[i] = Columna[T]{Etapa: &etapas[i], Entradas: []T{}}
		indice[etapas[i].ID] = i
	}
	sinEtapa := len(etapas)
	columnas[sinEtapa] = Columna[T]{Entradas: []T{}}

	for _, e := range entidades {
		id := etapaDe(e)
		destino := sinEtapa
		if id != nil {
			if i, ok := indice[*id]; ok {
				destino = i
			}
		}
		columnas[destino].Entradas = append(columnas[destino].Entradas, e)
	}
	return columnas
}
