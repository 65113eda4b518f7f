// Package storage guarda las imágenes de producto en un bucket S3 (o compatible, p. ej. MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/paws-pos/internal/application/usecase"
	"github.com/jhoicas/paws-pos/pkg/config"
)

var _ usecase.ImageStore = (*S3ImageStore)(nil)

// putObjectAPI subconjunto del cliente S3 que se usa; permite sustituirlo en tests.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore sube objetos con PutObject y devuelve su URL pública.
type S3ImageStore struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

// NewS3ImageStore crea el cliente S3 desde la configuración. Con credenciales vacías usa
// la cadena por defecto del SDK (variables de entorno, perfil, rol de instancia).
func NewS3ImageStore(ctx context.Context, cfg config.S3Config) (*S3ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cargar configuración AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3ImageStore(client, cfg), nil
}

func newS3ImageStore(client putObjectAPI, cfg config.S3Config) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: cfg.Bucket, baseURL: publicBaseURL(cfg)}
}

// Put sube data bajo key y devuelve la URL con la que se sirve.
func (s *S3ImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.baseURL + "/" + escapeKey(key), nil
}

// publicBaseURL S3_PUBLIC_BASE_URL si existe; si no, endpoint/bucket (path-style) o la URL virtual-hosted de AWS.
func publicBaseURL(cfg config.S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "" && cfg.UsePathStyle:
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	case cfg.Endpoint != "":
		u, err := url.Parse(cfg.Endpoint)
		if err == nil && u.Host != "" {
			return u.Scheme + "://" + cfg.Bucket + "." + u.Host
		}
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
