package proyecto

import "gorm.io/gorm"

type Repository interface {
	Salvar(db *gorm.DB, p *Proyecto) error
	ListarTodos(db *gorm.DB) ([]Proyecto, error)
	BuscarPorID(db *gorm.DB, id uint) (*Proyecto, error)
	Actualizar(db *gorm.DB, p *Proyecto) error
	Eliminar(db *gorm.DB, id uint) error
	MoverEtapa(db *gorm.DB, id uint, etapaID *uint) error
	Recientes(db *gorm.DB, n int) ([]Proyecto, error)
	Contar(db *gorm.DB) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Proyecto) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Proyecto, error) {
	var proyectos []Proyecto
	err := db.Preload("Archivos").Order("created_at desc").Find(&proyectos).Error
	return proyectos, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Proyecto, error) {
	var p Proyecto
	err := db.Preload("Archivos").First(&p, id).Error
	return &p, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, p *Proyecto) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Delete(&Proyecto{}, id).Error
}

// MoverEtapa espeja el movimiento de tablero de cotizaciones: escritura de
// un solo campo, sin validar la etapa.
func (r *repositoryImpl) MoverEtapa(db *gorm.DB, id uint, etapaID *uint) error {
	res := db.Model(&Proyecto{}).Where("id = ?", id).Update("etapa_id", etapaID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Recientes(db *gorm.DB, n int) ([]Proyecto, error) {
	var proyectos []Proyecto
	err := db.Order("created_at desc").Limit(n).Find(&proyectos).Error
	return proyectos, err
}

func (r *repositoryImpl) Contar(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&Proyecto{}).Count(&total).Error
	return total, err
}
