package shared

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	AppEnv        string `envconfig:"APP_ENV" default:"prod"`
	HTTPAddr      string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr   string `envconfig:"METRICS_ADDR" default:""`
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"mysql"`
	MySQLDSN      string `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4&loc=UTC"`

	RedisAddr   string        `envconfig:"REDIS_ADDR" default:""`
	RedisPass   string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB     int           `envconfig:"REDIS_DB" default:"0"`
	NameLockTTL time.Duration `envconfig:"NAME_LOCK_TTL" default:"5s"`

	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"20"`

	SeedFile    string `envconfig:"SEED_FILE" default:"seed/bookings.json"`
	SeedWorkers int    `envconfig:"SEED_WORKERS" default:"8"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Err(err).Msg(".env not loaded; using process environment")
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, errors.Wrap(err, "process env config")
	}
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case DriverMySQL, DriverMemory:
	default:
		return Config{}, errors.Newf("unknown STORAGE_DRIVER %q (want %s or %s)", c.StorageDriver, DriverMySQL, DriverMemory)
	}
	if c.SeedWorkers <= 0 {
		c.SeedWorkers = 1
	}
	return c, nil
}

// NameLockEnabled reports whether a Redis backend for the hotel-name lock is configured.
func (c Config) NameLockEnabled() bool { return c.RedisAddr != "" }
