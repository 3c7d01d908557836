package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	medqa "github.com/datar-psa/medqa"
	"github.com/datar-psa/medqa/internal/jsonenc"
)

// Patients generates one scenario file per fixed patient profile, written as
// patient_<PID>.json under OutDir. A failed profile is logged and skipped.
// Returns the number of scenarios written.
func Patients(ctx context.Context, opts Options) (int, error) {
	if opts.LLM == nil {
		return 0, fmt.Errorf("LLM generator is required")
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	written := 0
	for i, profile := range patientProfiles {
		slog.Info("generating patient scenario", "patient", profile.PID, "diagnosis", profile.Diagnosis)

		if err := generatePatient(ctx, opts, profile); err != nil {
			slog.Warn("patient generation failed", "patient", profile.PID, "error", err)
		} else {
			written++
		}

		if opts.Pause > 0 && i < len(patientProfiles)-1 {
			time.Sleep(opts.Pause)
		}
	}
	return written, nil
}

func generatePatient(ctx context.Context, opts Options, profile PatientProfile) error {
	var prompt strings.Builder
	if err := patientPromptTemplate.Execute(&prompt, profile); err != nil {
		return fmt.Errorf("render prompt: %w", err)
	}

	raw, err := opts.LLM.GenerateJSON(ctx, prompt.String())
	if err != nil {
		return fmt.Errorf("%w: %v", medqa.ErrGenerationFailed, err)
	}

	var scenario map[string]any
	if err := json.Unmarshal([]byte(raw), &scenario); err != nil {
		return fmt.Errorf("parse scenario response: %w", err)
	}

	if err := screenText(ctx, opts, noteText(scenario)); err != nil {
		return err
	}

	path := filepath.Join(opts.OutDir, fmt.Sprintf("patient_%s.json", profile.PID))
	return jsonenc.WriteFile(path, scenario)
}

func noteText(scenario map[string]any) string {
	note, _ := scenario["clinical_note"].(map[string]any)
	text, _ := note["text"].(string)
	return text
}
