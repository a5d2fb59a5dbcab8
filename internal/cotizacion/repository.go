package cotizacion

import "gorm.io/gorm"

type Repository interface {
	Salvar(db *gorm.DB, c *Cotizacion) error
	ListarTodas(db *gorm.DB) ([]Cotizacion, error)
	BuscarPorID(db *gorm.DB, id uint) (*Cotizacion, error)
	Actualizar(db *gorm.DB, c *Cotizacion) error
	MoverEtapa(db *gorm.DB, id uint, etapaID *uint) error
	Recientes(db *gorm.DB, n int) ([]Cotizacion, error)
	Contar(db *gorm.DB) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Cotizacion) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) ListarTodas(db *gorm.DB) ([]Cotizacion, error) {
	var cotizaciones []Cotizacion
	err := db.Preload("Archivos").Order("created_at desc").Find(&cotizaciones).Error
	return cotizaciones, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Cotizacion, error) {
	var c Cotizacion
	err := db.Preload("Archivos").First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, c *Cotizacion) error {
	return db.Save(c).Error
}

// MoverEtapa es la actualización de un solo campo del movimiento de tablero.
// No valida que la etapa exista: el tablero agrupa los ids desconocidos en
// el balde "sin etapa", igual que los nulos.
func (r *repositoryImpl) MoverEtapa(db *gorm.DB, id uint, etapaID *uint) error {
	res := db.Model(&Cotizacion{}).Where("id = ?", id).Update("etapa_id", etapaID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Recientes(db *gorm.DB, n int) ([]Cotizacion, error) {
	var cotizaciones []Cotizacion
	err := db.Order("created_at desc").Limit(n).Find(&cotizaciones).Error
	return cotizaciones, err
}

func (r *repositoryImpl) Contar(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&Cotizacion{}).Count(&total).Error
	return total, err
}
