package comentario

import "regexp"

var reMencion = regexp.MustCompile(`@([\p{L}0-9_.\-]+)`)

// ExtraerMenciones devuelve los nombres de usuario mencionados con @ en el
// texto, sin duplicados y en orden de aparición.
func ExtraerMenciones(texto string) []string {
	menciones := []string{}
	vistos := map[string]bool{}
	for _, m := range reMencion.FindAllStringSubmatch(texto, -1) {
		nombre := m[1]
		if vistos[nombre] {
			continue
		}
		vistos[nombre] = true
		menciones = append(menciones, nombre)
	}
	return menciones
}
