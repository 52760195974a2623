package config

//
// dbconfig.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
)

const (
	DriverSqlite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DBConfig configure database engine and sessions created from it.
type DBConfig struct {
	Driver  string `env:"DATABASE_DRIVER"`
	Connstr string `env:"DATABASE_URL"`

	// Echo enable logging of all executed statements.
	Echo bool `env:"DATABASE_ECHO" envDefault:"true"`
	// ExpireOnCommit mark objects loaded by session as stale after commit.
	ExpireOnCommit bool `env:"DATABASE_EXPIRE_ON_COMMIT" envDefault:"false"`

	// Pool settings; zero value means driver default.
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `env:"DATABASE_CONN_MAX_IDLE_TIME"`
}

func NewDBConfig(driver, connstr string) DBConfig {
	connstr = strings.TrimSpace(connstr)

	return DBConfig{
		Driver:  mapDriverName(driver, connstr),
		Connstr: connstr,
		Echo:    true,
	}
}

// LoadDBConfigEnv load database configuration from environment variables.
func LoadDBConfigEnv() (DBConfig, error) {
	var cfg DBConfig

	if err := env.Parse(&cfg); err != nil {
		return cfg, aerr.ApplyFor(aerr.ErrInvalidConf, err, "parse database configuration from env failed")
	}

	cfg.Connstr = strings.TrimSpace(cfg.Connstr)
	cfg.Driver = mapDriverName(cfg.Driver, cfg.Connstr)

	return cfg, nil
}

func (d *DBConfig) Validate() error {
	if d.Connstr == "" {
		return aerr.New("db.connstr argument can't be empty").WithTag(aerr.ValidationError)
	}

	if d.Driver == "" {
		return aerr.New("db.driver argument can't be empty").WithTag(aerr.ValidationError)
	} else if d.Driver != DriverSqlite && d.Driver != DriverPostgres {
		return aerr.New("invalid (unsupported) db.driver").WithTag(aerr.ValidationError).
			WithMeta("driver", d.Driver)
	}

	if d.MaxOpenConns < 0 || d.MaxIdleConns < 0 {
		return aerr.New("number of connections can't be negative").WithTag(aerr.ValidationError)
	}

	if d.MaxOpenConns > 0 && d.MaxIdleConns > d.MaxOpenConns {
		return aerr.New("max idle connections can't be greater than max open connections").
			WithTag(aerr.ValidationError)
	}

	if d.ConnMaxLifetime < 0 || d.ConnMaxIdleTime < 0 {
		return aerr.New("connection lifetime can't be negative").WithTag(aerr.ValidationError)
	}

	return nil
}

// mapDriverName normalize driver name; when driver is empty guess it from connstr.
func mapDriverName(driver, connstr string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return DriverSqlite
	case "pg", "postgresql", "postgres", "pgx":
		return DriverPostgres
	case "":
	default:
		return driver
	}

	switch {
	case connstr == "":
		return ""
	case strings.HasPrefix(connstr, "postgres://"), strings.HasPrefix(connstr, "postgresql://"):
		return DriverPostgres
	default:
		return DriverSqlite
	}
}
