package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func newConfigTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test", Run: func(cmd *cobra.Command, args []string) {}}
	cmd.Flags().String("training-dir", "", "")
	cmd.Flags().String("patients-file", "", "")
	cmd.Flags().String("output-dir", "", "")
	cmd.Flags().Int("workers", 0, "")
	cmd.Flags().String("model", "", "")
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newConfigTestCmd())
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.TrainingDir != "./training_data" {
		t.Errorf("TrainingDir = %q, want ./training_data", cfg.TrainingDir)
	}
	if cfg.PatientsFile != "./patients.json" {
		t.Errorf("PatientsFile = %q, want ./patients.json", cfg.PatientsFile)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q, want gemini-2.5-flash", cfg.Model)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
}

func TestLoadConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("MEDQA_MODEL", "gemini-2.5-pro")
	t.Setenv("MEDQA_WORKERS", "2")

	cmd := newConfigTestCmd()
	if err := cmd.Flags().Set("workers", "8"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q, want the env override", cfg.Model)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want the flag to win over env", cfg.Workers)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cmd := newConfigTestCmd()
	if err := cmd.Flags().Set("workers", "-1"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	if _, err := loadConfig(cmd); err == nil {
		t.Error("loadConfig() with negative workers should fail validation")
	}
}
