package main

import (
	"github.com/estudio-habitar/api-cotizaciones/internal/archivo"
	"github.com/estudio-habitar/api-cotizaciones/internal/auth"
	"github.com/estudio-habitar/api-cotizaciones/internal/comentario"
	"github.com/estudio-habitar/api-cotizaciones/internal/config"
	"github.com/estudio-habitar/api-cotizaciones/internal/cotizacion"
	"github.com/estudio-habitar/api-cotizaciones/internal/etapa"
	"github.com/estudio-habitar/api-cotizaciones/internal/eventos"
	"github.com/estudio-habitar/api-cotizaciones/internal/notificacion"
	"github.com/estudio-habitar/api-cotizaciones/internal/proyecto"
	"github.com/estudio-habitar/api-cotizaciones/internal/tablero"
	"github.com/estudio-habitar/api-cotizaciones/internal/tarea"
	"github.com/estudio-habitar/api-cotizaciones/internal/usuario"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// nuevoRouter arma todos los handlers y registra las rutas. Las rutas
// públicas van directo en el router raíz; las del panel cuelgan de un
// subrouter con la cadena token → cuenta activa → rol admin.
func nuevoRouter(db *gorm.DB, cfg config.Config, almacen archivo.Almacen, bus *eventos.Bus, mailer *notificacion.Mailer) *mux.Router {
	cotizacionHandler := cotizacion.NewHandler(db, mailer, bus)
	proyectoHandler := proyecto.NewHandler(db, bus)
	etapaHandler := etapa.NewHandler(db, bus)
	archivoHandler := archivo.NewHandler(db, almacen, bus)
	comentarioHandler := comentario.NewHandler(db)
	tareaHandler := tarea.NewHandler(db)
	tableroHandler := tablero.NewHandler(db)
	usuarioHandler := usuario.NewHandler(db, mailer, cfg.BaseURL)
	notificacionHandler := notificacion.NewHandler(db, mailer)

	r := mux.NewRouter()

	// Rutas públicas: asistente de cotización, contacto y acceso al panel.
	// La subida de adjuntos de cotización es pública porque el asistente
	// adjunta referencias antes de que exista sesión alguna: primero crea
	// la cotización y luego sube los archivos con el id nuevo.
	r.HandleFunc("/cotizaciones", cotizacionHandler.Crear).Methods("POST")
	r.HandleFunc("/cotizaciones/{id}/archivos", archivoHandler.SubirDeCotizacion).Methods("POST")
	r.HandleFunc("/api/enviar-cotizacion", notificacionHandler.EnviarCotizacion).Methods("POST")
	r.HandleFunc("/api/send-email", notificacionHandler.EnviarRespaldo).Methods("POST")
	r.HandleFunc("/api/test-email", notificacionHandler.TestEmail).Methods("POST")
	r.HandleFunc("/api/test-email-simple", notificacionHandler.TestEmailSimple).Methods("POST")
	r.HandleFunc("/api/contacto", notificacionHandler.Contacto).Methods("POST")
	r.HandleFunc("/auth/login", usuarioHandler.Login).Methods("POST")
	r.HandleFunc("/auth/recuperar", usuarioHandler.SolicitarReset).Methods("POST")
	r.HandleFunc("/auth/recuperar/clave", usuarioHandler.ActualizarClave).Methods("POST")
	r.HandleFunc("/auth/recuperar/{token}", usuarioHandler.VerificarReset).Methods("GET")

	// Rutas del panel: token válido, cuenta activa y rol de admin
	panel := r.PathPrefix("/").Subrouter()
	panel.Use(auth.MiddlewareAutenticacion)
	panel.Use(usuario.MiddlewareActivo(db, usuarioHandler.Repository))
	panel.Use(auth.RequireAdmin)

	// Cotizaciones
	panel.HandleFunc("/cotizaciones", cotizacionHandler.Listar).Methods("GET")
	panel.HandleFunc("/cotizaciones/export", cotizacionHandler.ExportarCSV).Methods("GET")
	panel.HandleFunc("/cotizaciones/{id}", cotizacionHandler.BuscarPorID).Methods("GET")
	panel.HandleFunc("/cotizaciones/{id}", cotizacionHandler.Actualizar).Methods("PUT")
	panel.HandleFunc("/cotizaciones/{id}/estado", cotizacionHandler.ActualizarEstado).Methods("PATCH")
	panel.HandleFunc("/cotizaciones/{id}/etapa", cotizacionHandler.MoverEtapa).Methods("PATCH")
	panel.HandleFunc("/cotizaciones/{id}/pdf", cotizacionHandler.DatosPDF).Methods("GET")

	// Proyectos
	panel.HandleFunc("/proyectos", proyectoHandler.Crear).Methods("POST")
	panel.HandleFunc("/proyectos", proyectoHandler.Listar).Methods("GET")
	panel.HandleFunc("/proyectos/prefill/{cotizacionId}", proyectoHandler.Prefill).Methods("GET")
	panel.HandleFunc("/proyectos/{id}", proyectoHandler.BuscarPorID).Methods("GET")
	panel.HandleFunc("/proyectos/{id}", proyectoHandler.Actualizar).Methods("PUT")
	panel.HandleFunc("/proyectos/{id}", proyectoHandler.Eliminar).Methods("DELETE")
	panel.HandleFunc("/proyectos/{id}/etapa", proyectoHandler.MoverEtapa).Methods("PATCH")

	// Etapas por tipo de tablero (cotizaciones | proyectos)
	panel.HandleFunc("/etapas/{tipo}", etapaHandler.Listar).Methods("GET")
	panel.HandleFunc("/etapas/{tipo}", etapaHandler.Crear).Methods("POST")
	panel.HandleFunc("/etapas/{tipo}/reordenar", etapaHandler.Reordenar).Methods("PUT")
	panel.HandleFunc("/etapas/{tipo}/{id}", etapaHandler.Actualizar).Methods("PUT")
	panel.HandleFunc("/etapas/{tipo}/{id}", etapaHandler.Eliminar).Methods("DELETE")

	// Tableros y resumen
	panel.HandleFunc("/tableros/cotizaciones", tableroHandler.TableroCotizaciones).Methods("GET")
	panel.HandleFunc("/tableros/proyectos", tableroHandler.TableroProyectos).Methods("GET")
	panel.HandleFunc("/resumen", tableroHandler.Resumen).Methods("GET")
	panel.HandleFunc("/eventos/{canal}", eventos.SSEHandler(bus)).Methods("GET")

	// Adjuntos
	panel.HandleFunc("/cotizaciones/{id}/archivos", archivoHandler.ListarDeCotizacion).Methods("GET")
	panel.HandleFunc("/proyectos/{id}/archivos", archivoHandler.SubirDeProyecto).Methods("POST")
	panel.HandleFunc("/proyectos/{id}/archivos", archivoHandler.ListarDeProyecto).Methods("GET")
	panel.HandleFunc("/archivos/cotizacion/{id}", archivoHandler.EliminarDeCotizacion).Methods("DELETE")
	panel.HandleFunc("/archivos/proyecto/{id}", archivoHandler.EliminarDeProyecto).Methods("DELETE")

	// Comentarios y tareas
	panel.HandleFunc("/comentarios", comentarioHandler.Crear).Methods("POST")
	panel.HandleFunc("/comentarios/{id}", comentarioHandler.Remover).Methods("DELETE")
	panel.HandleFunc("/cotizaciones/{id}/comentarios", comentarioHandler.ListarPorCotizacion).Methods("GET")
	panel.HandleFunc("/proyectos/{id}/comentarios", comentarioHandler.ListarPorProyecto).Methods("GET")
	panel.HandleFunc("/tareas", tareaHandler.Crear).Methods("POST")
	panel.HandleFunc("/tareas/{id}", tareaHandler.Actualizar).Methods("PUT")
	panel.HandleFunc("/tareas/{id}", tareaHandler.Eliminar).Methods("DELETE")
	panel.HandleFunc("/tareas/{id}/completada", tareaHandler.AlternarCompletada).Methods("PATCH")
	panel.HandleFunc("/cotizaciones/{id}/tareas", tareaHandler.ListarPorCotizacion).Methods("GET")
	panel.HandleFunc("/proyectos/{id}/tareas", tareaHandler.ListarPorProyecto).Methods("GET")

	// Usuarios del panel
	panel.HandleFunc("/usuarios", usuarioHandler.Crear).Methods("POST")
	panel.HandleFunc("/usuarios", usuarioHandler.Listar).Methods("GET")
	panel.HandleFunc("/usuarios/{id}", usuarioHandler.Actualizar).Methods("PUT")
	panel.HandleFunc("/usuarios/{id}", usuarioHandler.Eliminar).Methods("DELETE")

	return r
}
