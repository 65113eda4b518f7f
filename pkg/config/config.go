package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// devJWTSecret solo se usa con APP_ENV=development cuando JWT_SECRET no está definido.
const devJWTSecret = "dev-secret-cambiar-en-produccion"

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente .env).
type Config struct {
	App  AppConfig
	DB   DBConfig
	JWT  JWTConfig
	HTTP HTTPConfig
	Sale SaleConfig
	S3   S3Config
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Timezone string // zona horaria del negocio (IANA), ej. America/Bogota
}

// Location carga la zona horaria configurada.
func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool // aplica migraciones goose al arrancar la API
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Algorithm  string // HS256, HS384, HS512
	Expiration int    // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	CORSOrigins    string // lista separada por comas; "*" = cualquiera
	SwaggerEnabled bool
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SaleConfig política del motor de ventas.
type SaleConfig struct {
	PricePolicy string // "caller" (precio enviado por la caja) o "catalog" (precio vivo del producto)
}

// S3Config almacenamiento opcional de imágenes de producto. Bucket vacío = deshabilitado.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // opcional (MinIO, LocalStack)
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // base para construir image_url; por defecto la URL virtual-hosted de S3
	UsePathStyle    bool
}

// Enabled indica si hay bucket configurado.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env vía godotenv).
// Las env vars del proceso tienen prioridad sobre el archivo.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignoramos error si no existe .env

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "paws-pos"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "TIMEZONE", "America/Bogota"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "paws_pos"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Algorithm:  strings.ToUpper(getString(v, "JWT_ALGORITHM", "HS256")),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 30),
			Issuer:     getString(v, "JWT_ISSUER", "paws-pos"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8000),
			CORSOrigins:    getString(v, "CORS_ORIGINS", "*"),
			SwaggerEnabled: getBool(v, "SWAGGER_ENABLED", false),
		},
		Sale: SaleConfig{
			PricePolicy: strings.ToLower(getString(v, "SALE_PRICE_POLICY", "caller")),
		},
		S3: S3Config{
			Bucket:          getString(v, "S3_BUCKET", ""),
			Region:          getString(v, "S3_REGION", "us-east-1"),
			Endpoint:        getString(v, "S3_ENDPOINT", ""),
			AccessKeyID:     getString(v, "S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString(v, "S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   getString(v, "S3_PUBLIC_BASE_URL", ""),
			UsePathStyle:    getBool(v, "S3_USE_PATH_STYLE", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		if c.App.Env != "development" {
			return fmt.Errorf("config: JWT_SECRET es obligatorio en %s", c.App.Env)
		}
		c.JWT.Secret = devJWTSecret
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("config: JWT_ALGORITHM %q no soportado (HS256, HS384, HS512)", c.JWT.Algorithm)
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("config: TIMEZONE %q: %w", c.App.Timezone, err)
	}
	switch c.Sale.PricePolicy {
	case "caller", "catalog":
	default:
		return fmt.Errorf("config: SALE_PRICE_POLICY %q no soportado (caller, catalog)", c.Sale.PricePolicy)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
