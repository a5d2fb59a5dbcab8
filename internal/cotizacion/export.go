package cotizacion

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/estudio-habitar/api-cotizaciones/internal/utils"
)

// ExportarCSV trata GET /cotizaciones/export: descarga plana de todas las
// cotizaciones para trabajarlas en planilla.
func (h *Handler) ExportarCSV(w http.ResponseWriter, r *http.Request) {
	cotizaciones, err := h.Repository.ListarTodas(h.DB)
	if err != nil {
		utils.ResponderError(w, http.StatusInternalServerError, "error al exportar cotizaciones")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="cotizaciones-%s.csv"`, time.Now().Format("2006-01-02")))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	_ = cw.Write([]string{
		"id", "fecha", "nombre", "email", "telefono", "servicios",
		"tipo_espacio", "area_m2", "alcance", "urgencia",
		"uf_min", "uf_max", "estado", "etapa_id",
	})

	for _, c := range cotizaciones {
		fila := []string{
			fmt.Sprint(c.ID),
			c.CreatedAt.Format("2006-01-02 15:04"),
			c.Nombre,
			c.Email,
			c.Telefono,
			strings.Join(c.Servicios, "|"),
			c.TipoEspacio,
			fmt.Sprintf("%.2f", c.AreaM2),
			c.Alcance,
			c.Urgencia,
			formatoCota(c.CotizacionUFMin),
			formatoCota(c.CotizacionUFMax),
			c.Estado,
			formatoEtapa(c.EtapaID),
		}
		if err := cw.Write(fila); err != nil {
			return
		}
	}
}

func formatoCota(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatoEtapa(id *uint) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(*id)
}
