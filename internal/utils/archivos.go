package utils

import (
	"path"
	"strings"
)

// ClasificarTipoArchivo deduce una categoría simple a partir de la extensión
// del nombre de archivo. Se usa al duplicar referencias de archivos de una
// cotización hacia un proyecto, donde el tipo original no siempre viene.
func ClasificarTipoArchivo(nombre string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(nombre), "."))
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp", "heic", "svg":
		return "imagen"
	case "pdf":
		return "pdf"
	case "doc", "docx", "odt", "txt", "rtf":
		return "documento"
	case "xls", "xlsx", "csv", "ods":
		return "planilla"
	case "dwg", "dxf", "skp", "3ds", "obj":
		return "plano"
	case "zip", "rar", "7z":
		return "comprimido"
	case "":
		return "otro"
	default:
		return "otro"
	}
}
