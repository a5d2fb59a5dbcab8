package archivo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Almacen abstrae el almacenamiento de objetos para los adjuntos.
type Almacen interface {
	Subir(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Eliminar(ctx context.Context, key string) error
}

// AlmacenMinio implementa Almacen sobre MinIO / S3 compatible.
type AlmacenMinio struct {
	cliente *minio.Client
	bucket  string
	baseURL string
}

// NewAlmacenMinio conecta con MinIO y asegura que el bucket exista.
func NewAlmacenMinio(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*AlmacenMinio, error) {
	cliente, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("iniciar cliente minio: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	existe, err := cliente.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("verificar bucket: %w", err)
	}
	if !existe {
		if err := cliente.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("crear bucket: %w", err)
		}
	}

	esquema := "http"
	if useSSL {
		esquema = "https"
	}
	return &AlmacenMinio{
		cliente: cliente,
		bucket:  bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", esquema, endpoint, bucket),
	}, nil
}

// Subir guarda el objeto y devuelve su URL pública.
func (a *AlmacenMinio) Subir(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := a.cliente.PutObject(ctx, a.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("subir objeto: %w", err)
	}
	return a.baseURL + "/" + key, nil
}

// Eliminar remueve el objeto. Mejor esfuerzo: los registros de archivo se
// pueden borrar aunque el objeto ya no exista.
func (a *AlmacenMinio) Eliminar(ctx context.Context, key string) error {
	if err := a.cliente.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("eliminar objeto: %w", err)
	}
	return nil
}
