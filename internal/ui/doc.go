// Package ui provides terminal output components for the fluxvision CLI.
//
// These components follow a "print and exit" pattern: they render styled
// output with Lipgloss but take no keyboard input. The interactive
// credential form and bucket picker live in internal/wizard/tui.
//
// # Components
//
//   - Header: command banner showing the operation and its parameters
//   - Progress: step list with a progress bar
//   - Result: success, warning and failure boxes
//   - Table: bucket and server listings
//   - Confirmation: typed acknowledgement before destructive operations
//
// A Runner strings Header, Progress and Result together for multi-step
// commands such as "fluxvision check":
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:   "Connectivity Check",
//	    Command: "fluxvision check",
//	    Steps:   []string{"Load credentials", "Ping InfluxDB", "List buckets"},
//	})
//
//	err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, ui.StepComplete, "")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// Logging is controlled via FLUXVISION_LOG_LEVEL or --log-level. When unset,
// zap logging is silent so the curated output is displayed cleanly.
package ui
