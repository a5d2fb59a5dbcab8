package archivo

import (
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"gorm.io/gorm"
)

type Repository interface {
	CrearDeCotizacion(db *gorm.DB, a *ArchivoCotizacion) error
	ListarPorCotizacion(db *gorm.DB, cotizacionID uint) ([]ArchivoCotizacion, error)
	EliminarDeCotizacion(db *gorm.DB, id uint) (*ArchivoCotizacion, error)

	CrearDeProyecto(db *gorm.DB, a *ArchivoProyecto) error
	ListarPorProyecto(db *gorm.DB, proyectoID uint) ([]ArchivoProyecto, error)
	EliminarDeProyecto(db *gorm.DB, id uint) (*ArchivoProyecto, error)

	CopiarACotizacionProyecto(db *gorm.DB, cotizacionID, proyectoID uint) (int, error)

	ExisteCotizacion(db *gorm.DB, id uint) (bool, error)
	ExisteProyecto(db *gorm.DB, id uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) CrearDeCotizacion(db *gorm.DB, a *ArchivoCotizacion) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) ListarPorCotizacion(db *gorm.DB, cotizacionID uint) ([]ArchivoCotizacion, error) {
	var archivos []ArchivoCotizacion
	err := db.Where("cotizacion_id = ?", cotizacionID).Find(&archivos).Error
	return archivos, err
}

func (r *repositoryImpl) EliminarDeCotizacion(db *gorm.DB, id uint) (*ArchivoCotizacion, error) {
	var a ArchivoCotizacion
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	if err := db.Delete(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) CrearDeProyecto(db *gorm.DB, a *ArchivoProyecto) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) ListarPorProyecto(db *gorm.DB, proyectoID uint) ([]ArchivoProyecto, error) {
	var archivos []ArchivoProyecto
	err := db.Where("proyecto_id = ?", proyectoID).Find(&archivos).Error
	return archivos, err
}

func (r *repositoryImpl) EliminarDeProyecto(db *gorm.DB, id uint) (*ArchivoProyecto, error) {
	var a ArchivoProyecto
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	if err := db.Delete(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Los modelos de cotización y proyecto viven en paquetes que importan a
// este, así que la verificación de existencia va por nombre de tabla.

func (r *repositoryImpl) ExisteCotizacion(db *gorm.DB, id uint) (bool, error) {
	var n int64
	err := db.Table("cotizacions").Where("id = ? AND deleted_at IS NULL", id).Count(&n).Error
	return n > 0, err
}

func (r *repositoryImpl) ExisteProyecto(db *gorm.DB, id uint) (bool, error) {
	var n int64
	err := db.Table("proyectos").Where("id = ? AND deleted_at IS NULL", id).Count(&n).Error
	return n > 0, err
}

// CopiarACotizacionProyecto duplica cada referencia de archivo de la
// cotización hacia el proyecto, apuntando a la misma URL de almacenamiento.
// El tipo se reclasifica por extensión porque los registros antiguos no
// siempre lo traen. Devuelve cuántas referencias se copiaron.
func (r *repositoryImpl) CopiarACotizacionProyecto(db *gorm.DB, cotizacionID, proyectoID uint) (int, error) {
	origen, err := r.ListarPorCotizacion(db, cotizacionID)
	if err != nil {
		return 0, err
	}

	copiados := 0
	for _, src := range origen {
		dst := ArchivoProyecto{
			ProyectoID: proyectoID,
			URL:        src.URL,
			Nombre:     src.Nombre,
			Tipo:       utils.ClasificarTipoArchivo(src.Nombre),
			Tamano:     src.Tamano,
		}
		if err := db.Create(&dst).Error; err != nil {
			return copiados, err
		}
		copiados++
	}
	return copiados, nil
}
