package config

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/affibot/pkg/log"
)

type DBConfig struct {
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	Name     string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"prefer"`
}

func NewDBConfig(ctx context.Context) *DBConfig {
	c, err := ParseDBConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse DB config")
	}
	return c
}

func ParseDBConfig() (*DBConfig, error) {
	c := &DBConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the fields a Postgres connection cannot do without.
func (c DBConfig) Validate() error {
	var errs []error
	if c.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	return errors.Join(errs...)
}

// DSN renders the settings as a postgres:// URL.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}
