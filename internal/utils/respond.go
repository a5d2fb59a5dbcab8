package utils

import (
	"encoding/json"
	"net/http"
)

// Respuesta es el sobre JSON común de la API: success siempre presente,
// error y details solo en fallos, warning para resultados degradados
// (por ejemplo, correo no configurado).
type Respuesta struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
	Warning string `json:"warning,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ResponderJSON escribe cualquier payload con el status indicado.
func ResponderJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ResponderExito escribe el sobre estándar con success=true.
func ResponderExito(w http.ResponseWriter, status int, data any) {
	ResponderJSON(w, status, Respuesta{Success: true, Data: data})
}

// ResponderError escribe el sobre estándar con success=false.
func ResponderError(w http.ResponseWriter, status int, msg string, details ...string) {
	resp := Respuesta{Error: msg}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	ResponderJSON(w, status, resp)
}
