package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the resolved pipeline configuration. Values layer flag over
// MEDQA_* environment variable over default.
type Config struct {
	TrainingDir  string `mapstructure:"training_dir" validate:"required"`
	PatientsFile string `mapstructure:"patients_file" validate:"required"`
	OutputDir    string `mapstructure:"output_dir" validate:"required"`
	// Workers bounds the evaluation fan-out; 0 means one per CPU.
	Workers int    `mapstructure:"workers" validate:"gte=0"`
	Model   string `mapstructure:"model" validate:"required"`
}

var cfgValidator = validator.New()

// loadConfig resolves configuration for a command from its flags and the
// environment, then validates it.
func loadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDQA")
	v.AutomaticEnv()

	v.SetDefault("training_dir", "./training_data")
	v.SetDefault("patients_file", "./patients.json")
	v.SetDefault("output_dir", "./output")
	v.SetDefault("workers", 0)
	v.SetDefault("model", "gemini-2.5-flash")

	// Flags win over environment when set.
	bindings := map[string]string{
		"training_dir":  "training-dir",
		"patients_file": "patients-file",
		"output_dir":    "output-dir",
		"workers":       "workers",
		"model":         "model",
	}
	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfgValidator.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
