package notificacion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/estudio-habitar/api-cotizaciones/internal/config"
	"github.com/estudio-habitar/api-cotizaciones/internal/cotizacion"
	"github.com/resend/resend-go/v2"
)

// ErrNoConfigurado indica que falta la API key de Resend. Los handlers lo
// traducen a una respuesta degradada en vez de un 500: el formulario público
// nunca se cae porque el correo no esté configurado.
var ErrNoConfigurado = errors.New("notificacion: servicio de correo no configurado")

// Mailer envía los correos transaccionales del estudio vía Resend.
// Con cliente nil todos los envíos devuelven ErrNoConfigurado.
type Mailer struct {
	cliente *resend.Client
	desde   string
	equipo  string
	baseURL string
}

func NewMailer(cfg config.Config) *Mailer {
	m := &Mailer{
		desde:   cfg.EmailDesde,
		equipo:  cfg.EmailEquipo,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
	if cfg.ResendAPIKey != "" {
		m.cliente = resend.NewClient(cfg.ResendAPIKey)
	}
	return m
}

// Configurado informa si hay API key cargada.
func (m *Mailer) Configurado() bool {
	return m != nil && m.cliente != nil
}

func (m *Mailer) enviar(ctx context.Context, destino []string, asunto, html, texto string) (string, error) {
	if !m.Configurado() {
		return "", ErrNoConfigurado
	}
	enviado, err := m.cliente.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.desde,
		To:      destino,
		Subject: asunto,
		Html:    html,
		Text:    texto,
	})
	if err != nil {
		return "", fmt.Errorf("notificacion: envío a %v: %w", destino, err)
	}
	return enviado.Id, nil
}

type datosConfirmacion struct {
	ID         uint
	Nombre     string
	Email      string
	Telefono   string
	Servicios  string
	Urgencia   string
	TieneBanda bool
	UFMin      string
	UFMax      string
	CLPMin     string
	CLPMax     string
	Enlace     string
}

func (m *Mailer) datosDe(c *cotizacion.Cotizacion) datosConfirmacion {
	d := datosConfirmacion{
		ID:        c.ID,
		Nombre:    c.Nombre,
		Email:     c.Email,
		Telefono:  c.Telefono,
		Servicios: strings.Join(c.Servicios, ", "),
		Urgencia:  c.Urgencia,
		Enlace:    fmt.Sprintf("%s/panel/cotizaciones/%d", m.baseURL, c.ID),
	}
	if c.CotizacionUFMin != nil && c.CotizacionUFMax != nil {
		d.TieneBanda = true
		d.UFMin = fmt.Sprintf("%.2f", *c.CotizacionUFMin)
		d.UFMax = fmt.Sprintf("%.2f", *c.CotizacionUFMax)
	}
	if c.CotizacionCLPMin != nil && c.CotizacionCLPMax != nil {
		d.CLPMin = formatoCLP(*c.CotizacionCLPMin)
		d.CLPMax = formatoCLP(*c.CotizacionCLPMax)
	}
	return d
}

// EnviarConfirmacion manda el correo principal al cliente y, de paso, la
// alerta interna al equipo. La alerta es best-effort: su falla se loguea y
// no corta el flujo.
func (m *Mailer) EnviarConfirmacion(ctx context.Context, c *cotizacion.Cotizacion) (string, error) {
	datos := m.datosDe(c)
	html, err := renderizar(plantillaConfirmacion, datos)
	if err != nil {
		return "", fmt.Errorf("notificacion: plantilla de confirmación: %w", err)
	}
	id, err := m.enviar(ctx, []string{c.Email}, "Recibimos tu solicitud de cotización", html, "")
	if err != nil {
		return "", err
	}

	if alerta, errA := renderizar(plantillaAlertaInterna, datos); errA == nil {
		if _, errA = m.enviar(ctx, []string{m.equipo}, fmt.Sprintf("Nueva cotización #%d — %s", c.ID, c.Nombre), alerta, ""); errA != nil {
			log.Printf("notificacion: alerta interna de cotización %d: %v", c.ID, errA)
		}
	}
	return id, nil
}

// EnviarConfirmacionRespaldo es el camino alternativo cuando el envío
// principal falla: texto plano, sin plantilla que pueda fallar.
func (m *Mailer) EnviarConfirmacionRespaldo(ctx context.Context, c *cotizacion.Cotizacion) (string, error) {
	texto := fmt.Sprintf(
		"Hola %s,\n\nRecibimos tu solicitud de cotización y te contactaremos dentro de los próximos días hábiles.\n\nEstudio Habitar",
		c.Nombre,
	)
	return m.enviar(ctx, []string{c.Email}, "Recibimos tu solicitud de cotización", "", texto)
}

// EnviarReset manda el enlace de recuperación de clave al usuario del panel.
func (m *Mailer) EnviarReset(destino, nombre, enlace string) error {
	html, err := renderizar(plantillaReset, struct{ Nombre, Enlace string }{nombre, enlace})
	if err != nil {
		return fmt.Errorf("notificacion: plantilla de reset: %w", err)
	}
	_, err = m.enviar(context.Background(), []string{destino}, "Recupera tu clave", html, "")
	return err
}

// EnviarContacto reenvía al equipo un mensaje del formulario público.
func (m *Mailer) EnviarContacto(ctx context.Context, nombre, email, telefono, mensaje string) (string, error) {
	html, err := renderizar(plantillaContacto, struct{ Nombre, Email, Telefono, Mensaje string }{nombre, email, telefono, mensaje})
	if err != nil {
		return "", fmt.Errorf("notificacion: plantilla de contacto: %w", err)
	}
	return m.enviar(ctx, []string{m.equipo}, fmt.Sprintf("Contacto web: %s", nombre), html, "")
}

// formatoCLP separa miles con punto, como se escribe en Chile.
func formatoCLP(v float64) string {
	entero := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i := 0; i < len(entero); i++ {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(entero[i])
	}
	return b.String()
}
