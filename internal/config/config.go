package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	Addr          string
	DBDriver      string
	DatabaseURL   string
	SessionSecret string
	SessionTTL    time.Duration
	SessionSweep  time.Duration
	CookieSecure  bool
	BcryptCost    int
	BodyLimit     int
	LogFile       string
	LogLevel      string
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is fine.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads the configuration from the environment. Every problem found is
// reported at once so a misconfigured deployment fails before it listens.
func Load() (Config, error) { return load(true) }

// LoadDB reads only what is needed to reach the store, for the migrate command.
func LoadDB() (Config, error) { return load(false) }

func load(server bool) (Config, error) {
	var errs []error

	cfg := Config{
		Addr:          envOr("ADDR", ":8080"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER")))
	if cfg.DBDriver == "" {
		cfg.DBDriver = inferDriver(cfg.DatabaseURL)
	}
	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	case "postgres", "postgresql":
		cfg.DBDriver = DriverPostgres
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver))
	}

	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	switch {
	case !server:
	case cfg.SessionSecret == "":
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	case len(cfg.SessionSecret) < 16:
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 bytes"))
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 7*24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionSweep, err = durationEnv("SESSION_SWEEP", time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.CookieSecure, err = boolEnv("COOKIE_SECURE", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.BcryptCost, err = intEnv("BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		errs = append(errs, err)
	} else if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if cfg.BodyLimit, err = intEnv("BODY_LIMIT", 1<<20); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	log.Printf("[config] ADDR=%s DB_DRIVER=%s SESSION_TTL=%s COOKIE_SECURE=%t LOG_FILE=%s",
		cfg.Addr, cfg.DBDriver, cfg.SessionTTL, cfg.CookieSecure, cfg.LogFile)
	return cfg, nil
}

func inferDriver(url string) string {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}
