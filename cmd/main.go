package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/estudio-habitar/api-cotizaciones/internal/archivo"
	"github.com/estudio-habitar/api-cotizaciones/internal/auth"
	"github.com/estudio-habitar/api-cotizaciones/internal/comentario"
	"github.com/estudio-habitar/api-cotizaciones/internal/config"
	"github.com/estudio-habitar/api-cotizaciones/internal/cotizacion"
	"github.com/estudio-habitar/api-cotizaciones/internal/etapa"
	"github.com/estudio-habitar/api-cotizaciones/internal/eventos"
	"github.com/estudio-habitar/api-cotizaciones/internal/notificacion"
	"github.com/estudio-habitar/api-cotizaciones/internal/proyecto"
	"github.com/estudio-habitar/api-cotizaciones/internal/tarea"
	"github.com/estudio-habitar/api-cotizaciones/internal/usuario"
	utilsdb "github.com/estudio-habitar/api-cotizaciones/internal/utils/db"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// .env solo existe en desarrollo; en producción mandan las variables
	// del entorno.
	_ = godotenv.Load()

	cfg := config.Cargar()
	if err := auth.Configurar(cfg.JWTSecreto); err != nil {
		log.Fatal("JWT_SECRET es obligatorio: ", err)
	}

	db, err := utilsdb.GetDB()
	if err != nil {
		log.Fatal("error al conectar a la base de datos: ", err)
	}

	if err := db.AutoMigrate(
		&cotizacion.Cotizacion{},
		&proyecto.Proyecto{},
		&archivo.ArchivoCotizacion{},
		&archivo.ArchivoProyecto{},
		&comentario.Comentario{},
		&tarea.Tarea{},
		&usuario.Usuario{},
		&usuario.TokenReset{},
	); err != nil {
		log.Fatal("error en AutoMigrate: ", err)
	}
	if err := etapa.Migrate(db); err != nil {
		log.Fatal("error al migrar etapas: ", err)
	}

	// Colaboradores opcionales: sin MinIO no hay adjuntos, sin Redis no hay
	// tableros en vivo. El resto de la API funciona igual.
	var almacen archivo.Almacen
	if cfg.MinioEndpoint != "" {
		m, err := archivo.NewAlmacenMinio(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatal("error al conectar a MinIO: ", err)
		}
		almacen = m
	} else {
		log.Println("MINIO_ENDPOINT vacío: subida de adjuntos deshabilitada")
	}

	bus := eventos.NewBus(cfg.RedisAddr, cfg.RedisPassword)
	if bus == nil {
		log.Println("REDIS_ADDR vacío: tableros en vivo deshabilitados")
	}

	mailer := notificacion.NewMailer(cfg)
	if !mailer.Configurado() {
		log.Println("RESEND_API_KEY vacía: correos deshabilitados, los envíos degradan con warning")
	}

	r := nuevoRouter(db, cfg, almacen, bus, mailer)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	addr := fmt.Sprintf(":%s", cfg.Puerto)
	log.Println("API escuchando en", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
