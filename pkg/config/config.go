package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Engine    string
	Strategy  string
	TimeLimit time.Duration

	Log     LogConfig
	Solvers SolversConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SolversConfig holds the executable paths of the external DIMACS engines
type SolversConfig struct {
	KissatPath  string
	CadicalPath string
	MinisatPath string
}

// Keys of the optional JSON config file and the environment variables overriding them
var bindings = map[string]string{
	"env":         "ENV",
	"engine":      "TIMETABLE_ENGINE",
	"strategy":    "TIMETABLE_STRATEGY",
	"timeLimit":   "TIMETABLE_TIME_LIMIT",
	"logLevel":    "LOG_LEVEL",
	"logFormat":   "LOG_FORMAT",
	"kissatPath":  "KISSAT_PATH",
	"cadicalPath": "CADICAL_PATH",
	"minisatPath": "MINISAT_PATH",
}

// Load reads the configuration from the environment (and a .env file if present), on top of the optional JSON
// config file at path
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Env:       v.GetString("env"),
		Engine:    strings.ToLower(v.GetString("engine")),
		Strategy:  strings.ToLower(v.GetString("strategy")),
		TimeLimit: parseDuration(v.GetString("timeLimit"), 10*time.Second),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("logLevel"),
		Format: v.GetString("logFormat"),
	}

	cfg.Solvers = SolversConfig{
		KissatPath:  v.GetString("kissatPath"),
		CadicalPath: v.GetString("cadicalPath"),
		MinisatPath: v.GetString("minisatPath"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("engine", "gini")
	v.SetDefault("strategy", "embedded")
	v.SetDefault("timeLimit", "10s")

	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")

	v.SetDefault("kissatPath", "kissat")
	v.SetDefault("cadicalPath", "cadical")
	v.SetDefault("minisatPath", "minisat")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}
