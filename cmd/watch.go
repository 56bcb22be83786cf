package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/gnolang/jlint/formatter"
	"github.com/gnolang/jlint/internal"
	tt "github.com/gnolang/jlint/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-lint JavaScript files as they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		engine, err := newEngine("")
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		fmt.Printf("Watching %v for changes (Ctrl+C to stop)\n", args)
		if err := engine.Watch(ctx, args, watchReporter(logger, os.Stdout)); err != nil {
			logger.Error("watch stopped", zap.Error(err))
			atexit.Exit(1)
		}
	},
}

// watchReporter prints the issues of each re-linted file to w.
func watchReporter(logger *zap.Logger, w io.Writer) internal.ReportFunc {
	return func(filename string, issues []tt.Issue, err error) {
		if err != nil {
			logger.Error("Error linting file", zap.String("file", filename), zap.Error(err))
			return
		}
		if len(issues) == 0 {
			fmt.Fprintf(w, "%s: no issues\n", filename)
			return
		}
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			return
		}
		fmt.Fprintln(w, formatter.GenerateFormattedIssue(issues, sourceCode))
	}
}
