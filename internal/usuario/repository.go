package usuario

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, u *Usuario) error
	Listar(db *gorm.DB) ([]Usuario, error)
	BuscarPorID(db *gorm.DB, id uint) (*Usuario, error)
	BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error)
	Actualizar(db *gorm.DB, u *Usuario) error
	Eliminar(db *gorm.DB, id uint) error

	CrearTokenReset(db *gorm.DB, t *TokenReset) error
	BuscarTokenReset(db *gorm.DB, hash string) (*TokenReset, error)
	MarcarTokenUsado(db *gorm.DB, t *TokenReset) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, u *Usuario) error {
	return db.Create(u).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Usuario, error) {
	var usuarios []Usuario
	err := db.Order("created_at asc").Find(&usuarios).Error
	return usuarios, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Usuario, error) {
	var u Usuario
	err := db.First(&u, id).Error
	return &u, err
}

func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error) {
	var u Usuario
	err := db.Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, u *Usuario) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Delete(&Usuario{}, id).Error
}

func (r *repositoryImpl) CrearTokenReset(db *gorm.DB, t *TokenReset) error {
	return db.Create(t).Error
}

func (r *repositoryImpl) BuscarTokenReset(db *gorm.DB, hash string) (*TokenReset, error) {
	var t TokenReset
	err := db.Where("hash = ?", hash).First(&t).Error
	return &t, err
}

func (r *repositoryImpl) MarcarTokenUsado(db *gorm.DB, t *TokenReset) error {
	ahora := time.Now()
	t.UsadoEn = &ahora
	return db.Save(t).Error
}
