package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address    string `mapstructure:"address"`
	Port       int    `mapstructure:"port"`
	Mode       string `mapstructure:"mode"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	LogMode bool   `mapstructure:"log_mode"`
}

type ContentConfig struct {
	Dir string `mapstructure:"dir"`
}

type SessionConfig struct {
	Store         string `mapstructure:"store"` // memory | database | redis
	CookieName    string `mapstructure:"cookie_name"`
	IdleMinutes   int    `mapstructure:"idle_minutes"`
	SweepSeconds  int    `mapstructure:"sweep_seconds"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`
}

type SecurityConfig struct {
	BcryptCost int  `mapstructure:"bcrypt_cost"`
	TestLogin  bool `mapstructure:"test_login"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TranslationConfig struct {
	File string `mapstructure:"file"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Content     ContentConfig     `mapstructure:"content"`
	Session     SessionConfig     `mapstructure:"session"`
	Security    SecurityConfig    `mapstructure:"security"`
	Log         LogConfig         `mapstructure:"log"`
	Translation TranslationConfig `mapstructure:"translation"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from the given file path (e.g. "config.yaml").
// A .env file is applied first when present; PORTFOLIO_* variables and
// DATABASE_URL override file values.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. PORTFOLIO_SERVER_PORT=9000
		v.SetEnvPrefix("PORTFOLIO")
		v.AutomaticEnv()
		_ = v.BindEnv("database.url", "DATABASE_URL")

		setDefaults(v)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err = validate(&c); err != nil {
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 1998)
	v.SetDefault("server.mode", "release")
	v.SetDefault("content.dir", "images")
	v.SetDefault("session.store", "database")
	v.SetDefault("session.cookie_name", "portfolio_session")
	v.SetDefault("session.idle_minutes", 30)
	v.SetDefault("session.sweep_seconds", 60)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.test_login", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("translation.file", "data/en.json")
}

// validate rejects configurations the server cannot start with. Missing
// database URL or content dir is a startup error, not a request-time one.
func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (set DATABASE_URL)")
	}
	if c.Content.Dir == "" {
		return fmt.Errorf("content.dir is required")
	}
	switch c.Session.Store {
	case "memory", "database":
	case "redis":
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("session.redis_addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	return nil
}
