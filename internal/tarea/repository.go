package tarea

import "gorm.io/gorm"

type Repository interface {
	Crear(db *gorm.DB, t *Tarea) error
	ListarPorCotizacion(db *gorm.DB, cotizacionID uint) ([]Tarea, error)
	ListarPorProyecto(db *gorm.DB, proyectoID uint) ([]Tarea, error)
	BuscarPorID(db *gorm.DB, id uint) (*Tarea, error)
	Actualizar(db *gorm.DB, t *Tarea) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, t *Tarea) error {
	return db.Create(t).Error
}

func (r *repositoryImpl) ListarPorCotizacion(db *gorm.DB, cotizacionID uint) ([]Tarea, error) {
	var tareas []Tarea
	err := db.Where("cotizacion_id = ?", cotizacionID).Order("created_at asc").Find(&tareas).Error
	return tareas, err
}

func (r *repositoryImpl) ListarPorProyecto(db *gorm.DB, proyectoID uint) ([]Tarea, error) {
	var tareas []Tarea
	err := db.Where("proyecto_id = ?", proyectoID).Order("created_at asc").Find(&tareas).Error
	return tareas, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Tarea, error) {
	var t Tarea
	err := db.First(&t, id).Error
	return &t, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, t *Tarea) error {
	return db.Save(t).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Delete(&Tarea{}, id).Error
}
