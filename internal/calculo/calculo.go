package calculo

import "math"

// Alcances del proyecto aceptados por el formulario.
const (
	AlcanceSoloDiseno  = "solo diseño"
	AlcanceLlaveEnMano = "llave en mano"
)

// Urgencias aceptadas por el formulario.
const (
	UrgenciaInmediata = "menos de 1 mes"
	UrgenciaMedia     = "1-3 meses"
	UrgenciaBaja      = "más de 3 meses"
)

// ValorUFCLP es la constante de conversión UF→CLP usada para la segunda
// banda de precios. El valor real de la UF varía a diario; para la
// estimación referencial basta un valor fijo.
const ValorUFCLP = 38500.0

// Estimacion es la banda de precios referencial en ambas monedas.
// Invariante: UFMin ≤ UFMax y ambas cotas siempre se calculan juntas.
type Estimacion struct {
	UFMin  float64 `json:"ufMin"`
	UFMax  float64 `json:"ufMax"`
	CLPMin float64 `json:"clpMin"`
	CLPMax float64 `json:"clpMax"`
}

// MultiplicadorAlcance devuelve el factor UF/m² según el alcance.
func MultiplicadorAlcance(alcance string) float64 {
	if alcance == AlcanceLlaveEnMano {
		return 1.4
	}
	return 0.9
}

// FactorUrgencia recarga un 10% los proyectos con entrega en menos de un mes.
func FactorUrgencia(urgencia string) float64 {
	if urgencia == UrgenciaInmediata {
		return 1.1
	}
	return 1.0
}

// Calcular produce la banda ±10% alrededor del valor base. Las entradas
// llegan ya validadas por la capa de formulario; no hay condiciones de error.
func Calcular(areaM2 float64, alcance, urgencia string) Estimacion {
	base := areaM2 * MultiplicadorAlcance(alcance) * FactorUrgencia(urgencia)

	ufMin := redondear2(base * 0.9)
	ufMax := redondear2(base * 1.1)

	return Estimacion{
		UFMin:  ufMin,
		UFMax:  ufMax,
		CLPMin: redondear2(ufMin * ValorUFCLP),
		CLPMax: redondear2(ufMax * ValorUFCLP),
	}
}

// PresupuestoMedio es el punto medio de una banda, usado al derivar un
// proyecto desde una cotización.
func PresupuestoMedio(ufMin, ufMax float64) float64 {
	return redondear2((ufMin + ufMax) / 2)
}

func redondear2(v float64) float64 {
	return math.Round(v*100) / 100
}
