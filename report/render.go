package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/datar-psa/medqa/api"
	"github.com/datar-psa/medqa/corpus"
)

const (
	ruleWidth = 55
	// listingLimit caps per-status issue listings; the remainder is noted.
	listingLimit = 10
)

// Renderer writes console reports in the pipeline's house format.
type Renderer struct {
	w io.Writer

	header lipgloss.Style
	pass   lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	dim    lipgloss.Style
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		w:      w,
		header: lipgloss.NewStyle().Bold(true),
		pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Faint(true),
	}
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) rule(ch string) {
	r.printf("%s\n", strings.Repeat(ch, ruleWidth))
}

func (r *Renderer) title(text string) {
	r.rule("=")
	r.printf("  %s\n", r.header.Render(text))
	r.rule("=")
}

// MergeSummary renders per-file merge counts and the total.
func (r *Renderer) MergeSummary(files []corpus.FileCount, total int) {
	r.printf("\n")
	r.title("MERGE SUMMARY")
	for _, f := range files {
		r.printf("  %-40s %4d examples\n", f.Name, f.Count)
	}
	r.rule("-")
	r.printf("  %-40s %4d examples\n", "TOTAL", total)
	r.rule("=")
	r.printf("\n")
}

// ValidationReport renders the training data validation report: tallies,
// quality band, first-10 warning/failure listings, and the urgency histogram.
func (r *Renderer) ValidationReport(s ValidationSummary, hist []UrgencyCount) {
	r.printf("\n")
	r.title("TRAINING DATA VALIDATION REPORT")
	r.printf("  Total examples : %d\n", s.Total)
	r.printf("  %s : %d  (%.1f%%)\n", r.pass.Render("PASS   "), len(s.Passed), s.PassRate)
	r.printf("  %s : %d\n", r.warn.Render("WARNING"), len(s.Warned))
	r.printf("  %s : %d\n", r.fail.Render("REJECT "), len(s.Failed))
	r.rule("-")

	switch PassRateBand(s.PassRate) {
	case BandReady:
		r.printf("  %s\n", r.pass.Render("QUALITY THRESHOLD MET (>=85%) - ready for fine-tuning"))
	case BandBelowTarget:
		r.printf("  %s\n", r.warn.Render("BELOW TARGET - fix warnings before fine-tuning"))
	default:
		r.printf("  %s\n", r.fail.Render("CRITICAL - too many failures, regenerate data"))
	}

	r.listing("WARNINGS", s.Warned)
	r.listing("FAILURES", s.Failed)

	r.printf("\n  URGENCY DISTRIBUTION:\n")
	for _, b := range hist {
		bar := strings.Repeat("█", b.Count/5)
		r.printf("    %-8s: %4d  %s\n", b.Urgency, b.Count, bar)
	}

	r.rule("=")
	r.printf("\n")
}

func (r *Renderer) listing(label string, records []api.VerdictRecord) {
	if len(records) == 0 {
		return
	}
	r.printf("\n  %s (%d examples):\n", label, len(records))
	for i, rec := range records {
		if i == listingLimit {
			break
		}
		r.printf("    Example #%03d: %s\n", rec.Index, strings.Join(rec.Issues, "; "))
	}
	if extra := len(records) - listingLimit; extra > 0 {
		r.printf("    %s\n", r.dim.Render(fmt.Sprintf("... and %d more", extra)))
	}
}

// CleanSaveSummary notes where the cleaned corpus landed.
func (r *Renderer) CleanSaveSummary(path string, kept, removed int) {
	r.printf("  Clean training data saved -> %s\n", path)
	r.printf("     (%d examples after removing %d rejections)\n\n", kept, removed)
}

// ScenarioReport renders the patient scenario evaluation report: tallies,
// ranked score table, detailed findings, demo-readiness counts and verdict.
func (r *Renderer) ScenarioReport(s ScenarioSummary, readiness DemoReadiness) {
	r.printf("\n")
	r.title("PATIENT SCENARIOS EVALUATION REPORT")
	r.printf("  Total scenarios : %d\n", s.Total)
	r.printf("  %s : %d\n", r.pass.Render("PASS   "), s.Passed)
	r.printf("  %s : %d\n", r.warn.Render("WARNING"), s.Warned)
	r.printf("  %s : %d\n", r.fail.Render("REJECT "), s.Failed)
	r.printf("  Avg score : %.0f/100\n", s.AvgScore)
	r.rule("-")

	r.printf("\n  SCENARIO SCORES:\n")
	for _, c := range s.Ranked {
		bar := strings.Repeat("█", c.Score/10)
		r.printf("  %s %-8s %3d/100  %s\n", r.statusMark(c.Status), c.ID, c.Score, bar)
	}

	r.detailedFindings(s.Ranked)

	r.printf("\n  DEMO READINESS:\n")
	r.printf("    Scenarios with pending orders   : %d/%d\n", readiness.PendingOrders, readiness.Total)
	r.printf("    Scenarios with AI flags         : %d/%d\n", readiness.AIFlags, readiness.Total)
	r.printf("    Scenarios with failure mode     : %d/%d\n", readiness.FailureModes, readiness.Total)

	switch ReadinessBand(s.AvgScore, s.Failed) {
	case BandReady:
		r.printf("\n  %s\n", r.pass.Render("DEMO READY - all scenarios suitable for frontend"))
	case BandBelowTarget:
		r.printf("\n  %s\n", r.warn.Render("MOSTLY READY - fix warnings for best demo quality"))
	default:
		r.printf("\n  %s\n", r.fail.Render("NEEDS WORK - several scenarios need attention"))
	}

	r.rule("=")
	r.printf("\n")
}

func (r *Renderer) detailedFindings(cards []api.ScoreCard) {
	var problems []api.ScoreCard
	for _, c := range cards {
		if len(c.Issues) > 0 || len(c.Warnings) > 0 {
			problems = append(problems, c)
		}
	}
	if len(problems) == 0 {
		return
	}

	r.printf("\n  DETAILED ISSUES:\n")
	for _, c := range problems {
		r.printf("\n  %s (score: %d/100)\n", c.ID, c.Score)
		for _, issue := range c.Issues {
			r.printf("     %s %s\n", r.fail.Render("x"), issue)
		}
		for _, warning := range c.Warnings {
			r.printf("     %s %s\n", r.warn.Render("!"), warning)
		}
	}
}

func (r *Renderer) statusMark(status api.Status) string {
	switch status {
	case api.StatusPass:
		return r.pass.Render("+")
	case api.StatusWarning:
		return r.warn.Render("!")
	default:
		return r.fail.Render("x")
	}
}
