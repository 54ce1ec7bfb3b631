package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "GRADEBOOK"

type Server struct {
	Host              string
	Port              int
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type DB struct {
	Driver       string
	DSN          string
	Host         string
	Port         int
	User         string
	Pass         string
	Name         string
	MaxOpenConns int
}

type JWT struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type Auth struct {
	BcryptCost    int
	MaxFailures   int
	LockoutWindow time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Bootstrap describes an instructor created at startup when absent.
type Bootstrap struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	DateOfBirth string
}

type Log struct {
	Level string
	Path  string
}

type Config struct {
	Server    Server
	DB        DB
	JWT       JWT
	Auth      Auth
	Redis     Redis
	Bootstrap Bootstrap
	Log       Log
	CORS      struct {
		AllowedOrigins []string
	}
}

// Source is a loaded configuration that can be re-read when its file changes.
type Source struct {
	v *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_header_timeout", "5s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "gradebook")
	v.SetDefault("db.max_open_conns", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "gradebook")
	v.SetDefault("jwt.ttl", "45m")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.max_failures", 5)
	v.SetDefault("auth.lockout_window", "15m")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("bootstrap.username", "")
	v.SetDefault("bootstrap.password", "")
	v.SetDefault("bootstrap.email", "")
	v.SetDefault("bootstrap.first_name", "Default")
	v.SetDefault("bootstrap.last_name", "Instructor")
	v.SetDefault("bootstrap.date_of_birth", "1970-01-01")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// Open reads .env (if present) into the environment, then the YAML file at
// path. An empty path looks for an optional ./config.yaml. Environment
// variables prefixed with GRADEBOOK_ override file values.
func Open(path string) (*Source, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return &Source{v: v}, nil
}

func Load(path string) (*Config, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	return src.Config()
}

// Config builds and validates a Config from the current values.
func (s *Source) Config() (*Config, error) {
	v := s.v
	cfg := &Config{
		Server: Server{
			Host:              v.GetString("server.host"),
			Port:              v.GetInt("server.port"),
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
		},
		DB: DB{
			Driver:       strings.ToLower(v.GetString("db.driver")),
			DSN:          v.GetString("db.dsn"),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Pass:         v.GetString("db.pass"),
			Name:         v.GetString("db.name"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
		},
		JWT: JWT{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Auth: Auth{
			BcryptCost:    v.GetInt("auth.bcrypt_cost"),
			MaxFailures:   v.GetInt("auth.max_failures"),
			LockoutWindow: v.GetDuration("auth.lockout_window"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Bootstrap: Bootstrap{
			Username:    v.GetString("bootstrap.username"),
			Password:    v.GetString("bootstrap.password"),
			Email:       v.GetString("bootstrap.email"),
			FirstName:   v.GetString("bootstrap.first_name"),
			LastName:    v.GetString("bootstrap.last_name"),
			DateOfBirth: v.GetString("bootstrap.date_of_birth"),
		},
		Log: Log{
			Level: v.GetString("log.level"),
			Path:  v.GetString("log.path"),
		},
	}
	cfg.CORS.AllowedOrigins = v.GetStringSlice("cors.allowed_origins")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch calls fn with the re-read configuration whenever the file changes.
// Invalid intermediate states are reported through onErr and skipped.
func (s *Source) Watch(fn func(*Config), onErr func(error)) {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := s.Config()
		if err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		fn(cfg)
	})
	s.v.WatchConfig()
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("db.driver must be sqlite, mysql or postgres, got %q", c.DB.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set (GRADEBOOK_JWT_SECRET or jwt.secret)")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Bootstrap.Username != "" && c.Bootstrap.Password == "" {
		return errors.New("bootstrap.password is required when bootstrap.username is set")
	}
	return nil
}
