package utils

import "testing"

func TestClasificarTipoArchivo(t *testing.T) {
	casos := map[string]string{
		"plano-cocina.PDF":   "pdf",
		"render_final.jpg":   "imagen",
		"moodboard.webp":     "imagen",
		"propuesta.docx":     "documento",
		"presupuesto.xlsx":   "planilla",
		"planta.dwg":         "plano",
		"entregables.zip":    "comprimido",
		"notas.txt":          "documento",
		"sin-extension":      "otro",
		"raro.xyz":           "otro",
		"archivo.final.PNG":  "imagen",
	}
	for nombre, esperado := range casos {
		if got := ClasificarTipoArchivo(nombre); got != esperado {
			t.Errorf("ClasificarTipoArchivo(%q) = %q, esperaba %q", nombre, got, esperado)
		}
	}
}
