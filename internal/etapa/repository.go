package etapa

import "gorm.io/gorm"

type Repository interface {
	Listar(db *gorm.DB, tipo string) ([]Etapa, error)
	BuscarPorID(db *gorm.DB, tipo string, id uint) (*Etapa, error)
	Crear(db *gorm.DB, tipo string, e *Etapa) error
	Actualizar(db *gorm.DB, tipo string, id uint, nuevosDatos *Etapa) (*Etapa, error)
	Eliminar(db *gorm.DB, tipo string, id uint) error
	Reordenar(db *gorm.DB, tipo string, ids []uint) error
	Primera(db *gorm.DB, tipo string) (*Etapa, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Listar(db *gorm.DB, tipo string) ([]Etapa, error) {
	tabla, err := TablaPorTipo(tipo)
	if err != nil {
		return nil, err
	}
	var etapas []Etapa
	err = db.Table(tabla).Order("orden asc, id asc").Find(&etapas).Error
	return etapas, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, tipo string, id uint) (*Etapa, error) {
	tabla, err := TablaPorTipo(tipo)
	if err != nil {
		return nil, err
	}
	var e Etapa
	if err := db.Table(tabla).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// Crear inserta la etapa al final del tablero si no trae orden explícito.
func (r *repositoryImpl) Crear(db *gorm.DB, tipo string, e *Etapa) error {
	tabla, err := TablaPorTipo(tipo)
	if err != nil {
		return err
	}
	if e.Orden == 0 {
		// Scan no pasa por el scope de soft delete; el filtro va explícito
		// para que las etapas eliminadas no inflen el máximo.
		var max int
		if err := db.Table(tabla).Where("deleted_at IS NULL").Select("COALESCE(MAX(orden), 0)").Scan(&max).Error; err == nil {
			e.Orden = max + 1
		}
	}
	return db.Table(tabla).Create(e).Error
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, tipo string, id uint, nuevosDatos *Etapa) (*Etapa, error) {
	tabla, err := TablaPorTipo(tipo)
	if err != nil {
		return nil, err
	}
	var existente Etapa
	if err := db.Table(tabla).First(&existente, id).Error; err != nil {
		return nil, err
	}

	existente.Nombre = nuevosDatos.Nombre
	existente.Descripcion = nuevosDatos.Descripcion
	existente.Color = nuevosDatos.Color
	if nuevosDatos.Orden != 0 {
		existente.Orden = nuevosDatos.Orden
	}

	if err := db.Table(tabla).Save(&existente).Error; err != nil {
		return nil, err
	}
	return &existente, nil
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, tipo string, id uint) error {
	tabla, err := TablaPorTipo(tipo)
	if err != nil {
		return err
	}
	return db.Table(tabla).Delete(&Etapa{}, id).Error
}

// Reordenar reescribe el campo orden de cada etapa según la posición del id
// en la lista recibida (gesto de arrastre del tablero). Ids desconocidos se
// ignoran en silencio.
func (r *repositoryImpl) Reordenar(db *gorm.DB, tipo string, ids []uint) error {
	tabla, err := TablaPorTipo(tipo)
	if err != nil {
		return err
	}
	for i, id := range ids {
		if err := db.Table(tabla).Where("id = ?", id).Update("orden", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}

// Primera devuelve la etapa de menor orden, la columna inicial del tablero.
func (r *repositoryImpl) Primera(db *gorm.DB, tipo string) (*Etapa, error) {
	tabla, err := TablaPorTipo(tipo)
	if err != nil {
		return nil, err
	}
	var e Etapa
	if err := db.Table(tabla).Order("orden asc, id asc").First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}
