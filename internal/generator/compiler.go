package generator

import (
	"context"
	"os/exec"
	"time"
)

// Fixed filenames inside a scratch workspace.
const (
	sourceFile   = "cv.tex"
	artifactFile = "cv.pdf"
	logFile      = "cv.log"
)

// Runner executes one compiler pass with the given working directory.
// A non-zero exit or timeout is returned as an error, but callers must not
// treat that as fatal: pdflatex routinely exits non-zero on cosmetic
// warnings while still producing a valid PDF. The only reliable failure
// signal is the absence of the artifact afterwards.
type Runner interface {
	Run(ctx context.Context, dir string) error
}

// PDFLatex runs the real compiler: `pdflatex -interaction=nonstopmode
// cv.tex` inside the workspace, bounded by a per-pass wall-clock timeout.
type PDFLatex struct {
	Cmd     string
	Timeout time.Duration
}

func (p PDFLatex) Run(ctx context.Context, dir string) error {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Cmd, "-interaction=nonstopmode", sourceFile)
	cmd.Dir = dir
	// Output is discarded; diagnostics come from cv.log, which survives
	// the process and is what the failure path excerpts.
	return cmd.Run()
}
