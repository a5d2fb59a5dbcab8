package notificacion

import (
	"bytes"
	"html/template"
)

// Plantillas HTML de los correos transaccionales. Se parsean al cargar el
// paquete; un error acá es un bug de compilación, no de runtime.
var (
	plantillaConfirmacion = template.Must(template.New("confirmacion").Parse(`
<div style="font-family: 'Helvetica Neue', Arial, sans-serif; max-width: 560px; margin: 0 auto; color: #2d2a26;">
  <h1 style="font-size: 22px; font-weight: 400;">Hola {{.Nombre}},</h1>
  <p>Recibimos tu solicitud de cotización. Nuestro equipo la está revisando y te
  contactaremos dentro de los próximos días hábiles.</p>
  {{if .TieneBanda}}
  <div style="background: #f6f3ee; border-radius: 8px; padding: 16px 20px; margin: 24px 0;">
    <p style="margin: 0 0 4px; font-size: 13px; color: #8a8378;">Estimación referencial</p>
    <p style="margin: 0; font-size: 20px;">UF {{.UFMin}} – UF {{.UFMax}}</p>
    <p style="margin: 4px 0 0; font-size: 13px; color: #8a8378;">${{.CLPMin}} – ${{.CLPMax}} CLP aprox.</p>
  </div>
  <p style="font-size: 13px; color: #8a8378;">Este rango es orientativo y la
  propuesta final puede variar según el alcance definitivo del proyecto.</p>
  {{end}}
  <p>Gracias por pensar en nosotros para tu espacio.</p>
  <p style="margin-top: 32px;">Estudio Habitar</p>
</div>`))

	plantillaAlertaInterna = template.Must(template.New("alerta").Parse(`
<div style="font-family: Arial, sans-serif;">
  <h2>Nueva cotización #{{.ID}}</h2>
  <table cellpadding="4">
    <tr><td><b>Nombre</b></td><td>{{.Nombre}}</td></tr>
    <tr><td><b>Email</b></td><td>{{.Email}}</td></tr>
    <tr><td><b>Teléfono</b></td><td>{{.Telefono}}</td></tr>
    <tr><td><b>Servicios</b></td><td>{{.Servicios}}</td></tr>
    <tr><td><b>Urgencia</b></td><td>{{.Urgencia}}</td></tr>
    {{if .TieneBanda}}<tr><td><b>Estimación</b></td><td>UF {{.UFMin}} – {{.UFMax}}</td></tr>{{end}}
  </table>
  <p><a href="{{.Enlace}}">Ver en el panel</a></p>
</div>`))

	plantillaContacto = template.Must(template.New("contacto").Parse(`
<div style="font-family: Arial, sans-serif;">
  <h2>Mensaje del formulario de contacto</h2>
  <p><b>Nombre:</b> {{.Nombre}}</p>
  <p><b>Email:</b> {{.Email}}</p>
  <p><b>Teléfono:</b> {{.Telefono}}</p>
  <p style="white-space: pre-wrap;">{{.Mensaje}}</p>
</div>`))

	plantillaReset = template.Must(template.New("reset").Parse(`
<div style="font-family: 'Helvetica Neue', Arial, sans-serif; max-width: 560px; margin: 0 auto; color: #2d2a26;">
  <h1 style="font-size: 22px; font-weight: 400;">Hola {{.Nombre}},</h1>
  <p>Pediste recuperar tu clave del panel. El enlace vence en una hora:</p>
  <p><a href="{{.Enlace}}" style="display: inline-block; background: #2d2a26; color: #fff; padding: 10px 24px; border-radius: 6px; text-decoration: none;">Crear clave nueva</a></p>
  <p style="font-size: 13px; color: #8a8378;">Si no fuiste tú, ignora este correo.</p>
</div>`))
)

func renderizar(t *template.Template, datos any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, datos); err != nil {
		return "", err
	}
	return buf.String(), nil
}
