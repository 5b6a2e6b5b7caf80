package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full process configuration, loaded once at startup and
// passed to constructors; nothing reads the environment after this.
type Config struct {
	ServerAddr string `envconfig:"SERVER_ADDR" default:":3000"`
	BaseURL    string `envconfig:"BASE_URL" default:"http://localhost:3000"`
	Debug      bool   `envconfig:"DEBUG" default:"false"`

	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"file:signup.db?cache=shared&mode=rwc"`

	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer       string `envconfig:"JWT_ISSUER" default:"go-signup"`
	TokenExpiration int    `envconfig:"TOKEN_EXPIRATION_HOURS" default:"1"`

	SMTPHost     string `envconfig:"SMTP_HOST" required:"true"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" required:"true"`
	MailFromName string `envconfig:"MAIL_FROM_NAME"`

	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
}

// LoadConfig layers a local .env file under the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var c Config
	err := envconfig.Process("", &c)
	return c, err
}

// Sanitized returns a copy safe to print: secrets are masked, never logged.
func (c Config) Sanitized() Config {
	out := c
	if out.JWTSecret != "" {
		out.JWTSecret = "********"
	}
	if out.SMTPPassword != "" {
		out.SMTPPassword = "********"
	}
	return out
}

type persistenceConfig struct {
	dsn   string
	debug bool
}

func (p persistenceConfig) GetDSN() string { return p.dsn }

func (p persistenceConfig) GetDebug() bool { return p.debug }

func (p persistenceConfig) GetPingTimeout() time.Duration { return 5 * time.Second }

func (p persistenceConfig) GetDriver() string { return "" }

func (p persistenceConfig) GetServer() string { return "" }

func (p persistenceConfig) GetOtelIdentifier() string { return "" }
