package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/samandr77/microservices/condo/internal/entity"
)

const MB = 1 << 20

type Config struct {
	HTTP     HTTP
	Logger   Logger
	Postgres Postgres
	Backend  Backend
	Faces    Faces
	Owner    Owner
	JWT      JWT
	Kafka    Kafka
	Mailer   Mailer
}

type HTTP struct {
	Port int `env:"HTTP_PORT" envDefault:"8080"`
	// bcrypt hash of the key accepted on /internal routes.
	InternalAPIKeyHash string `env:"HTTP_INTERNAL_API_KEY_HASH" envDefault:""`
}

type Logger struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type Postgres struct {
	DSN     string `env:"POSTGRES_DSN"`
	MaxConn int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
}

type Backend struct {
	BaseURL       string        `env:"BACKEND_BASE_URL"`
	AuthScheme    string        `env:"BACKEND_AUTH_SCHEME" envDefault:"Bearer"`
	Timeout       time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s"`
	RetryAttempts int           `env:"BACKEND_RETRY_ATTEMPTS" envDefault:"2"`
	SecurityPath  string        `env:"BACKEND_SECURITY_RECOGNITION_PATH" envDefault:"/seguridad/reconocer/"`
}

type Faces struct {
	MaxImageSize     int64         `env:"FACES_MAX_IMAGE_SIZE" envDefault:"5242880"`
	StagingTTL       time.Duration `env:"FACES_STAGING_TTL" envDefault:"1h"`
	EvictionInterval time.Duration `env:"FACES_EVICTION_INTERVAL" envDefault:"10m"`
}

type Owner struct {
	DemotionPolicy entity.DemotionPolicy `env:"OWNER_DEMOTION_POLICY" envDefault:"fail_closed"`
}

type JWT struct {
	Secret string `env:"JWT_SECRET"`
}

type Kafka struct {
	Brokers     []string `env:"KAFKA_BROKERS" envDefault:""`
	EventsTopic string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"condo.events"`
	ConsumerID  string   `env:"KAFKA_CONSUMER_ID" envDefault:"condo-notifier"`
}

type Mailer struct {
	Host            string   `env:"SMTP_HOST" envDefault:"localhost"`
	Port            int      `env:"SMTP_PORT" envDefault:"587"`
	Login           string   `env:"SMTP_LOGIN" envDefault:""`
	Password        string   `env:"SMTP_PASSWORD" envDefault:""`
	From            string   `env:"SMTP_FROM" envDefault:"no-reply@condominio.local"`
	AlertRecipients []string `env:"MAIL_ALERT_RECIPIENTS" envDefault:""`
}

// Notifier is the subset of settings the notifier worker needs.
type Notifier struct {
	Logger Logger
	Kafka  Kafka
	Mailer Mailer
}

// New loads the gateway configuration.
func New(envPath string) (Config, error) {
	c, err := load[Config](envPath)
	if err != nil {
		return Config{}, err
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func NewNotifier(envPath string) (Notifier, error) {
	c, err := load[Notifier](envPath)
	if err != nil {
		return Notifier{}, err
	}

	if len(c.Kafka.Brokers) == 0 {
		return Notifier{}, errors.New("KAFKA_BROKERS is required by the notifier")
	}

	return c, nil
}

func load[T any](envPath string) (T, error) {
	var zero T

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return zero, err
	}

	c, err := env.ParseAsWithOptions[T](env.Options{
		RequiredIfNoDef: true,
	})
	if err != nil {
		return zero, err
	}

	return c, nil
}

func (c Config) validate() error {
	if !c.Owner.DemotionPolicy.IsValid() {
		return fmt.Errorf("OWNER_DEMOTION_POLICY: unknown policy %q", c.Owner.DemotionPolicy)
	}

	if c.Faces.MaxImageSize <= 0 {
		return errors.New("FACES_MAX_IMAGE_SIZE must be positive")
	}

	if c.Faces.StagingTTL <= 0 {
		return errors.New("FACES_STAGING_TTL must be positive")
	}

	return nil
}
