package comentario

import "gorm.io/gorm"

type Repository interface {
	Crear(db *gorm.DB, c *Comentario) error
	ListarPorCotizacion(db *gorm.DB, cotizacionID uint) ([]Comentario, error)
	ListarPorProyecto(db *gorm.DB, proyectoID uint) ([]Comentario, error)
	BuscarPorID(db *gorm.DB, id uint) (*Comentario, error)
	Remover(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *Comentario) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) ListarPorCotizacion(db *gorm.DB, cotizacionID uint) ([]Comentario, error) {
	var comentarios []Comentario
	err := db.Where("cotizacion_id = ?", cotizacionID).Order("created_at asc").Find(&comentarios).Error
	return comentarios, err
}

func (r *repositoryImpl) ListarPorProyecto(db *gorm.DB, proyectoID uint) ([]Comentario, error) {
	var comentarios []Comentario
	err := db.Where("proyecto_id = ?", proyectoID).Order("created_at asc").Find(&comentarios).Error
	return comentarios, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Comentario, error) {
	var c Comentario
	err := db.First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	return db.Delete(&Comentario{}, id).Error
}
