package archivo

import "gorm.io/gorm"

// ArchivoCotizacion es la referencia a un objeto subido, ligada a una
// cotización. Se crea durante el intake o en cargas posteriores y se borra
// de forma independiente de la cotización.
type ArchivoCotizacion struct {
	gorm.Model
	CotizacionID uint   `gorm:"not null;index" json:"cotizacionId"`
	URL          string `gorm:"not null" json:"url"`
	Nombre       string `json:"nombre"`
	Tipo         string `gorm:"size:40" json:"tipo"`
	Tamano       int64  `json:"tamano"`
}

// ArchivoProyecto es la referencia equivalente en el ámbito de un proyecto.
// Al derivar un proyecto desde una cotización las referencias se duplican
// apuntando al mismo objeto; no se re-sube nada.
type ArchivoProyecto struct {
	gorm.Model
	ProyectoID uint   `gorm:"not null;index" json:"proyectoId"`
	URL        string `gorm:"not null" json:"url"`
	Nombre     string `json:"nombre"`
	Tipo       string `gorm:"size:40" json:"tipo"`
	Tamano     int64  `json:"tamano"`
}
