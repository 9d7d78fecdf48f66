package main

import (
	"fmt"
	"os"

	"github.com/go-sql-driver/mysql"
)

// Config holds app settings and secrets.
type Config struct {
	driver     string
	dsn        string
	dbUser     string
	dbPassword string
	dbHost     string
	dbName     string
	httpAddr   string
	seedFile   string
}

const (
	dbDriverKey   string = "DB_DRIVER"
	dbDSNKey      string = "DB_DSN"
	dbUserKey     string = "DB_USER"
	dbPasswordKey string = "DB_PASSWORD"
	dbHostKey     string = "DB_HOST"
	dbNameKey     string = "DB_NAME"
	httpAddrKey   string = "HTTP_ADDR"
	seedFileKey   string = "ADDRESSBOOK_SEED_FILE"

	defaultDriver    string = dialectSQLite
	defaultSQLiteDSN string = "addresses.db"
	defaultDBName    string = "addressbook"
	defaultHTTPAddr  string = ":5000"
)

var requiredEnv = map[string][]string{
	dialectMySQL: {
		dbUserKey,
		dbPasswordKey,
		dbHostKey,
	},
	dialectPostgres: {
		dbDSNKey,
	},
}

// getConfig reads settings from the environment through lookup, failing when a
// variable the chosen driver needs is unset.
func getConfig(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	config := Config{
		driver:   get(dbDriverKey, defaultDriver),
		httpAddr: get(httpAddrKey, defaultHTTPAddr),
		seedFile: get(seedFileKey, ""),
	}

	if _, err := dialectFor(config.driver); err != nil {
		return Config{}, fmt.Errorf("%s: %w", dbDriverKey, err)
	}

	for _, key := range requiredEnv[config.driver] {
		if _, ok := lookup(key); !ok {
			return Config{}, fmt.Errorf("must set %s when %s=%s", key, dbDriverKey, config.driver)
		}
	}

	switch config.driver {
	case dialectMySQL:
		config.dbUser = get(dbUserKey, "")
		config.dbPassword = get(dbPasswordKey, "")
		config.dbHost = get(dbHostKey, "")
		config.dbName = get(dbNameKey, defaultDBName)
		config.dsn = config.mysqlDSN()
	case dialectSQLite:
		config.dsn = get(dbDSNKey, defaultSQLiteDSN)
	default:
		config.dsn = get(dbDSNKey, "")
	}

	return config, nil
}

func getEnvConfig() (Config, error) {
	return getConfig(os.LookupEnv)
}

func (c Config) mysqlDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.dbUser
	cfg.Passwd = c.dbPassword
	cfg.Net = "tcp"
	cfg.Addr = c.dbHost
	cfg.DBName = c.dbName
	cfg.ParseTime = true
	// Updates that rewrite identical values must still count as a matched row.
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}
