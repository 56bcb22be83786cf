package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/gnolang/jlint/internal/fixer"
	"github.com/gnolang/jlint/lint"
)

var (
	dryRun              bool
	confidenceThreshold float64
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Automatically fix issues",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			atexit.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := lint.New(".", cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		if err := runAutoFix(ctx, logger, engine, args, dryRun, confidenceThreshold, os.Stdout); err != nil {
			atexit.Exit(1)
		}
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
	fixCmd.Flags().Float64Var(&confidenceThreshold, "confidence", 0.75, "Confidence threshold for auto-fixing (0.0 to 1.0)")
}

// runAutoFix fixes every source file under paths, re-linting between passes
// so that nested rewrites are applied too. Failures are logged and the last
// one is returned once every file has been tried.
func runAutoFix(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, dryRun bool, confidenceThreshold float64, w io.Writer) error {
	fix := fixer.New(dryRun, confidenceThreshold)
	fix.Out = w

	var lastErr error
	for _, path := range paths {
		files, err := sourceFiles(path)
		if err != nil {
			logger.Error("error processing path", zap.String("path", path), zap.Error(err))
			lastErr = err
			continue
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := fix.FixAll(file, engine.Run)
			if err != nil {
				logger.Error("error fixing issues", zap.String("file", file), zap.Error(err))
				lastErr = err
				continue
			}
			if n > 0 && !dryRun {
				fmt.Fprintf(w, "Fixed issues in %s (%d edits)\n", file, n)
			}
		}
	}
	return lastErr
}

// sourceFiles expands path into the source files it names.
func sourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if info.IsDir() {
		return lint.CollectFiles(path)
	}
	return []string{path}, nil
}
