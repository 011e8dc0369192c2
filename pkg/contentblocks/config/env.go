package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv reads the env-tagged ServerConfig fields. Unset variables leave the
// current value alone, so options applied before WithEnv still hold unless the
// environment overrides them. Defaults come from Load.
//
// Server:
//   IP / OPENSHIFT_NODEJS_IP - listen address (default: "0.0.0.0")
//   PORT / OPENSHIFT_NODEJS_PORT - listen port (default: "8080")
//   OPENSHIFT_APP_DNS - public host name (default: "localhost")
//
// Database:
//   OPENSHIFT_MONGODB_DB_URL / MONGO_URL / DATABASE_URL - first one set wins.
//       "mongodb://..." or "mongodb+srv://..." selects MongoDB,
//       "postgres://..." or "postgresql://..." selects Postgres,
//       empty or "memory" uses the in-memory store.
//   DATABASE_SERVICE_NAME - when no URL is set, a mongodb URL is built from
//       <NAME>_USER, <NAME>_PASSWORD, <NAME>_DATABASE,
//       <NAME>_SERVICE_HOST and <NAME>_SERVICE_PORT.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		if c.DatabaseURL == "" && c.DatabaseServiceName != "" {
			c.DatabaseURL = serviceDatabaseURL(c.DatabaseServiceName)
		}
		return nil
	}
}

// WithDatabaseURL sets the store connection string
func WithDatabaseURL(dbURL string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseURL = dbURL
		return nil
	}
}

// WithPort sets the listen port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// resolveDatabase derives DatabaseType from DatabaseURL
func (c *ServerConfig) resolveDatabase() error {
	dbURL := strings.TrimSpace(c.DatabaseURL)

	switch {
	case dbURL == "" || dbURL == "memory":
		c.DatabaseType = DatabaseMemory
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "mongodb://"), strings.HasPrefix(dbURL, "mongodb+srv://"):
		c.DatabaseType = DatabaseMongo
		c.DatabaseURL = dbURL
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.DatabaseType = DatabasePostgres
		c.DatabaseURL = dbURL
	default:
		return fmt.Errorf("unsupported database url format: %s (use 'memory', 'mongodb://...' or 'postgresql://...')", c.DatabaseLabel())
	}
	return nil
}

// MongoDatabase returns the database named in the URL path, falling back to DatabaseName
func (c *ServerConfig) MongoDatabase() string {
	u, err := url.Parse(c.DatabaseURL)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return c.DatabaseName
}

// DatabaseLabel renders the database URL without credentials or query string, for logs
func (c *ServerConfig) DatabaseLabel() string {
	if c.DatabaseURL == "" {
		return DatabaseMemory
	}
	u, err := url.Parse(c.DatabaseURL)
	if err != nil || u.Host == "" {
		return "<unparseable database url>"
	}
	return u.Scheme + "://" + u.Host + u.Path
}

// serviceDatabaseURL builds a mongodb URL from the variables a platform
// database service injects, or returns "" when host, port or name is missing.
func serviceDatabaseURL(service string) string {
	prefix := strings.ToUpper(strings.ReplaceAll(service, "-", "_"))
	user := os.Getenv(prefix + "_USER")
	password := os.Getenv(prefix + "_PASSWORD")
	name := os.Getenv(prefix + "_DATABASE")
	host := os.Getenv(prefix + "_SERVICE_HOST")
	port := os.Getenv(prefix + "_SERVICE_PORT")

	if host == "" || port == "" || name == "" {
		return ""
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   host + ":" + port,
		Path:   "/" + name,
	}
	if user != "" && password != "" {
		u.User = url.UserPassword(user, password)
	}
	return u.String()
}
