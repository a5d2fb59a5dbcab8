package usuario

import (
	"net/http"

	"github.com/estudio-habitar/api-cotizaciones/internal/auth"
	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
	"gorm.io/gorm"
)

// MiddlewareActivo vuelve a consultar la fila del usuario del token:
// un token sigue siendo válido hasta 24h después de desactivar la
// cuenta, así que acá cortamos el acceso de inmediato.
func MiddlewareActivo(db *gorm.DB, repo Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := auth.UsuarioDe(r)
			if id == 0 {
				utils.ResponderError(w, http.StatusUnauthorized, "token sin usuario")
				return
			}
			u, err := repo.BuscarPorID(db, id)
			if err != nil || !u.Activo {
				utils.ResponderError(w, http.StatusForbidden, "usuario desactivado")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
