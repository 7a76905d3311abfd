// Package report prints scenario results for humans.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/saucedemo/swaglabs-e2e/internal/models"
)

var (
	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	dim      = color.New(color.Faint).SprintFunc()
)

// Write prints one line per scenario followed by a summary
func Write(w io.Writer, run *models.Run) {
	for _, result := range run.Results {
		writeResult(w, result)
	}

	passed, failed := run.Counts()
	fmt.Fprintln(w)
	summary := fmt.Sprintf("%d passed, %d failed (%s)", passed, failed, run.Duration().Round(time.Millisecond))
	if failed > 0 {
		fmt.Fprintln(w, failMark("✗ "+summary))
	} else {
		fmt.Fprintln(w, passMark("✓ "+summary))
	}
}

func writeResult(w io.Writer, result *models.ScenarioResult) {
	duration := dim(fmt.Sprintf("(%s)", result.Duration().Round(time.Millisecond)))
	switch result.Status {
	case models.ResultStatusPassed:
		fmt.Fprintf(w, "%s %s %s\n", passMark("✓"), result.Scenario, duration)
	case models.ResultStatusFailed:
		fmt.Fprintf(w, "%s %s %s\n", failMark("✗"), result.Scenario, duration)
		fmt.Fprintf(w, "    %s: %s\n", failMark(result.FailureKind), result.Message)
	default:
		fmt.Fprintf(w, "? %s %s\n", result.Scenario, result.Status)
	}
}

// WriteHistory prints recorded results, newest first
func WriteHistory(w io.Writer, results []*models.ScenarioResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No recorded results")
		return
	}
	for _, result := range results {
		status := passMark(string(result.Status))
		if result.IsFailed() {
			status = failMark(string(result.Status))
		}
		fmt.Fprintf(w, "%s  %-8s %-16s %s %s\n",
			result.StartedAt.Format(time.RFC3339),
			status,
			result.Scenario,
			dim(result.RunID),
			result.FailureKind,
		)
	}
}

// Progress renders a progress bar advanced once per finished scenario
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress bar for total scenarios writing to w
func NewProgress(w io.Writer, total int) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.CyanString("Running scenarios")),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Progress{bar: bar}
}

// Observe advances the bar; it matches runner.Observer
func (p *Progress) Observe(result *models.ScenarioResult) {
	p.bar.Describe(fmt.Sprintf("%s %s", color.CyanString("Running scenarios"), result.Scenario))
	_ = p.bar.Add(1)
}

// Finish completes the bar
func (p *Progress) Finish() {
	_ = p.bar.Finish()
}
