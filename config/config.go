// Package config loads the environment-driven configuration spec.md
// §6 documents, using viper (grounded on the retrieval pack's
// AI-cycling-coach manifest, which configures an analogous wearable
// pipeline the same way) instead of hand-rolled os.Getenv calls.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every environment-sourced setting the pipeline needs
// (spec.md §6 plus the trainer's window and the ingest pipeline's
// inter-request delay from spec.md §5).
type Config struct {
	Email    string
	Password string
	DataDir  string
	ResultDir string

	WindowMonths      int
	InterRequestDelay time.Duration
}

// Load reads GARMIN_EMAIL, GARMIN_PASSWORD, GARMIN_DATA_DIR,
// GARMIN_RESULT_DIR plus the trainer window and inter-request delay
// (spec.md §5: default 2s) from the environment.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GARMIN")
	v.AutomaticEnv()

	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("RESULT_DIR", "results")
	v.SetDefault("WINDOW_MONTHS", 2)
	v.SetDefault("INTER_REQUEST_DELAY_SECONDS", 2)

	cfg := Config{
		Email:             v.GetString("EMAIL"),
		Password:          v.GetString("PASSWORD"),
		DataDir:           v.GetString("DATA_DIR"),
		ResultDir:         v.GetString("RESULT_DIR"),
		WindowMonths:      v.GetInt("WINDOW_MONTHS"),
		InterRequestDelay: time.Duration(v.GetInt("INTER_REQUEST_DELAY_SECONDS")) * time.Second,
	}

	if cfg.Email == "" || cfg.Password == "" {
		return Config{}, fmt.Errorf("config: GARMIN_EMAIL and GARMIN_PASSWORD are required")
	}
	return cfg, nil
}
