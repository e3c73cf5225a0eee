// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/lunchpicker/lunchpicker/pkg/logging"
)

type App struct {
	// Network
	Port           int      `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Storage. MongoURI selects the Mongo backend; otherwise SQLite at DBPath.
	DBPath        string `envconfig:"DB_PATH" default:"./data/lunch.db"`
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"lunchpicker"`

	// JWT
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiry time.Duration `envconfig:"JWT_EXPIRY" default:"168h"`

	// Overpass
	OverpassURL     string        `envconfig:"OVERPASS_URL" default:"https://overpass-api.de/api/interpreter"`
	OverpassTimeout time.Duration `envconfig:"OVERPASS_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (App, error) {
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return c, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return c, fmt.Errorf("invalid PORT %d", c.Port)
	}
	return c, nil
}

// Addr is the listen address for the HTTP server.
func (c App) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// UseMongo reports whether the Mongo backend is configured.
func (c App) UseMongo() bool {
	return strings.TrimSpace(c.MongoURI) != ""
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c App) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}
