package usecase

import "context"

// ImageStore almacena imágenes de producto fuera de la base de datos y devuelve su URL pública.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
