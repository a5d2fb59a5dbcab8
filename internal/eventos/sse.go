package eventos

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

var canalesValidos = map[string]bool{
	"cotizaciones": true,
	"proyectos":    true,
}

// SSEHandler transmite los eventos de un canal como server-sent events para
// que los tableros del panel se mantengan al día sin recargar.
func SSEHandler(bus *Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		canal := mux.Vars(r)["canal"]
		if !canalesValidos[canal] {
			http.Error(w, "canal desconocido", http.StatusNotFound)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming no soportado", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for ev := range bus.Suscribir(r.Context(), canal) {
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
