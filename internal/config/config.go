package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config armazena a configuração da aplicação
type Config struct {
	ServerPort    int    `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"` // assina os tokens de desbloqueio
	AWSBucketName string `envconfig:"AWS_BUCKET_NAME" required:"true"`
	AWSRegion     string `envconfig:"AWS_REGION" required:"true"`

	// Origem do frontend, permitida no CORS
	ClientURL string `envconfig:"CLIENT_URL" default:"http://localhost:5173"`

	// Validade das URLs assinadas (independente da expiração do link)
	DownloadURLLifetime time.Duration `envconfig:"DOWNLOAD_URL_LIFETIME" default:"5m"`
	UploadURLLifetime   time.Duration `envconfig:"UPLOAD_URL_LIFETIME" default:"15m"`

	// Tamanho do código curto (0 = padrão do gerador)
	ShortCodeLength int `envconfig:"SHORT_CODE_LENGTH" default:"8"`
}

// Load carrega a configuração das variáveis de ambiente
func Load(cfg *Config) error {
	return envconfig.Process("", cfg)
}
