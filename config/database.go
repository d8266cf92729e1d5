package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const defaultMaxOpenConns = 25

// DBConfig selects and configures the SQL backend.
type DBConfig struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`

	// Path is the SQLite database file.
	Path string `env:"PATH" envDefault:"./doctrack.db"`

	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"doctrack"`
	Password string `env:"PASSWORD" envDefault:"doctrack"`
	Name     string `env:"NAME"     envDefault:"doctrack"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production

	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"25"`

	// ProvisionSchema applies the embedded DDL at startup. Off by default; the schema
	// is normally provisioned outside the service.
	ProvisionSchema bool `env:"PROVISION_SCHEMA" envDefault:"false"`
}

// Sanitize normalises the driver name and pool size.
func (c *DBConfig) Sanitize() {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "", "sqlite", "sqlite3":
		c.Driver = DriverSQLite
	case "postgres", "postgresql", "pgx":
		c.Driver = DriverPostgres
	default:
		c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	}
	c.Path = strings.TrimSpace(c.Path)
	if c.Path == "" {
		c.Path = "./doctrack.db"
	}
	if c.MaxOpenConns < 1 {
		c.MaxOpenConns = defaultMaxOpenConns
	}
}

// PostgresDSN builds a postgres:// URL, escaping credentials.
func (c *DBConfig) PostgresDSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// SQLiteDSN returns a modernc.org/sqlite DSN for Path with a busy timeout.
// Foreign keys stay at the SQLite default (unenforced).
func (c *DBConfig) SQLiteDSN() string {
	return "file:" + c.Path + "?_pragma=busy_timeout(5000)"
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	// Enabled turns on the Redis-backed job catalog cache.
	Enabled            bool     `env:"ENABLED"              envDefault:"false"`
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains job catalog cache settings.
type CacheConfig struct {
	JobsTTL   time.Duration `env:"CACHE_JOBS_TTL"   envDefault:"5m"`
	KeyPrefix string        `env:"CACHE_KEY_PREFIX" envDefault:"doctrack:"`
}

// Sanitize restores defaults for unusable values.
func (c *CacheConfig) Sanitize() {
	if c.JobsTTL <= 0 {
		c.JobsTTL = 5 * time.Minute
	}
	c.KeyPrefix = strings.TrimSpace(c.KeyPrefix)
}
