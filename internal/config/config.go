package config

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio. Se construye una sola vez al arrancar
// y se pasa por referencia; ningún otro paquete lee variables de entorno.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBHost     string `env:"HOST_PGSQL,required,notEmpty"`
	DBPort     int    `env:"PORT_PGSQL" envDefault:"5432"`
	DBName     string `env:"NAME_PGSQL,required,notEmpty"`
	DBUser     string `env:"USER_PGSQL,required,notEmpty"`
	DBPassword string `env:"PASS_PGSQL"`
	DBSSLMode  string `env:"SSLMODE_PGSQL" envDefault:"disable"`

	DBConnectTimeout   time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	DBStatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"10s"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS" envDefault:"10"`

	DBWaitMaxAttempts int           `env:"DB_WAIT_MAX_ATTEMPTS" envDefault:"10"`
	DBWaitRetryDelay  time.Duration `env:"DB_WAIT_RETRY_DELAY" envDefault:"5s"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabaseURL arma la URL de conexión postgres a partir de los campos individuales.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBName,
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		u.User = url.User(c.DBUser)
	}
	q := url.Values{}
	if c.DBSSLMode != "" {
		q.Set("sslmode", c.DBSSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
