package config

import (
	"os"
	"strings"
)

// Config concentra toda la configuración leída del entorno. Se carga una sola
// vez en main y se inyecta explícitamente en cada handler; ningún paquete lee
// variables de entorno por su cuenta.
type Config struct {
	Puerto  string
	BaseURL string

	// Correo transaccional (Resend)
	ResendAPIKey string
	EmailDesde   string
	EmailEquipo  string

	// Pub/sub para los tableros en vivo
	RedisAddr     string
	RedisPassword string

	// Almacenamiento de objetos (MinIO / compatible S3)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	JWTSecreto string
}

// Cargar lee el entorno y aplica valores por defecto de desarrollo.
func Cargar() Config {
	return Config{
		Puerto:  valorODefecto("PORT", "8080"),
		BaseURL: valorODefecto("APP_BASE_URL", "http://localhost:3000"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailDesde:   valorODefecto("EMAIL_DESDE", "Estudio Habitar <cotizaciones@estudiohabitar.cl>"),
		EmailEquipo:  valorODefecto("EMAIL_EQUIPO", "equipo@estudiohabitar.cl"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    valorODefecto("MINIO_BUCKET", "adjuntos"),
		MinioUseSSL:    strings.EqualFold(os.Getenv("MINIO_USE_SSL"), "true"),

		JWTSecreto: os.Getenv("JWT_SECRET"),
	}
}

func valorODefecto(clave, defecto string) string {
	if v := strings.TrimSpace(os.Getenv(clave)); v != "" {
		return v
	}
	return defecto
}
