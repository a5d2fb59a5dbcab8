package calculo

import (
	"math"
	"testing"
)

func TestCalcularEjemploConocido(t *testing.T) {
	// 100 m² llave en mano sin urgencia: base 140 → banda 126.00 / 154.00
	est := Calcular(100, AlcanceLlaveEnMano, UrgenciaMedia)

	if est.UFMin != 126.00 {
		t.Errorf("ufMin esperado 126.00, obtenido %v", est.UFMin)
	}
	if est.UFMax != 154.00 {
		t.Errorf("ufMax esperado 154.00, obtenido %v", est.UFMax)
	}
	if est.CLPMin != redondear2(126.00*ValorUFCLP) {
		t.Errorf("clpMin no corresponde a la conversión fija: %v", est.CLPMin)
	}
	if est.CLPMax != redondear2(154.00*ValorUFCLP) {
		t.Errorf("clpMax no corresponde a la conversión fija: %v", est.CLPMax)
	}
}

func TestCalcularPropiedadesDeBanda(t *testing.T) {
	alcances := []string{AlcanceSoloDiseno, AlcanceLlaveEnMano}
	urgencias := []string{UrgenciaInmediata, UrgenciaMedia, UrgenciaBaja}
	areas := []float64{1, 12.5, 45, 100, 380.75, 1200}

	for _, alcance := range alcances {
		for _, urgencia := range urgencias {
			for _, area := range areas {
				est := Calcular(area, alcance, urgencia)

				if est.UFMax < est.UFMin {
					t.Fatalf("banda invertida para area=%v alcance=%q urgencia=%q: %+v",
						area, alcance, urgencia, est)
				}

				base := area * MultiplicadorAlcance(alcance) * FactorUrgencia(urgencia)
				// ±10% con 1% de tolerancia por redondeo
				if !cerca(est.UFMin, base*0.9, base*0.01) {
					t.Errorf("ufMin fuera de banda: base=%v est=%+v", base, est)
				}
				if !cerca(est.UFMax, base*1.1, base*0.01) {
					t.Errorf("ufMax fuera de banda: base=%v est=%+v", base, est)
				}
			}
		}
	}
}

func TestCalcularUrgenciaRecarga(t *testing.T) {
	normal := Calcular(80, AlcanceSoloDiseno, UrgenciaBaja)
	urgente := Calcular(80, AlcanceSoloDiseno, UrgenciaInmediata)

	if urgente.UFMin <= normal.UFMin || urgente.UFMax <= normal.UFMax {
		t.Errorf("la urgencia inmediata debe recargar la banda: normal=%+v urgente=%+v", normal, urgente)
	}
}

func TestPresupuestoMedio(t *testing.T) {
	if got := PresupuestoMedio(126.00, 154.00); got != 140.00 {
		t.Errorf("esperado 140.00, obtenido %v", got)
	}
	if got := PresupuestoMedio(100.10, 100.15); got != 100.13 {
		t.Errorf("esperado 100.13, obtenido %v", got)
	}
}

func cerca(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
