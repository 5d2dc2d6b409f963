package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gerakolix/cvforge/internal/app"
	"github.com/gerakolix/cvforge/internal/assets"
	"github.com/gerakolix/cvforge/internal/config"
	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/generator"
	"github.com/gerakolix/cvforge/internal/logger"
	"github.com/gerakolix/cvforge/internal/store/file"
	"github.com/gerakolix/cvforge/internal/version"
)

var (
	genCompany  string
	genPosition string
	genNotes    string
	genTags     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cvforge",
	Short: "cvforge - CV document manager and LaTeX PDF generator",
	Long: `cvforge manages a structured CV profile as JSON documents and renders
tailored PDF variants through a LaTeX toolchain.

Run without arguments to start the HTTP API server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// generateCmd renders one document without going through the HTTP API,
// which is handy for cron jobs and quick local runs.
var generateCmd = &cobra.Command{
	Use:   "generate <config-id>",
	Short: "Generate a PDF for one configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cvforge %s (commit=%s, built=%s, go=%s)\n",
			version.Version, version.Commit, version.BuildDate, version.GoVersion)
	},
}

func runServe() error {
	a, err := app.New()
	if err != nil {
		return err
	}
	return a.Run()
}

func runGenerate(ctx context.Context, configID string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	store, err := file.New(cfg.DataDir, cfg.OutputDir, nil, log)
	if err != nil {
		return fmt.Errorf("failed to initialize document store: %w", err)
	}
	assetStore, err := assets.New(cfg.AssetsDir)
	if err != nil {
		return fmt.Errorf("failed to initialize asset store: %w", err)
	}

	gen := generator.New(store, assetStore, &generator.PDFLatex{
		Cmd:     cfg.CompilerCmd,
		Timeout: cfg.CompilerTimeout,
	}, nil, log)

	var tags []string
	if genTags != "" {
		for _, t := range strings.Split(genTags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*cfg.CompilerTimeout+30*time.Second)
	defer cancel()

	res, err := gen.Generate(ctx, configID, domain.JobMeta{
		Company:  genCompany,
		Position: genPosition,
		Notes:    genNotes,
		Tags:     tags,
	})
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
	return nil
}

func init() {
	generateCmd.Flags().StringVar(&genCompany, "company", "", "target company recorded in the archive and filename")
	generateCmd.Flags().StringVar(&genPosition, "position", "", "target position recorded in the archive")
	generateCmd.Flags().StringVar(&genNotes, "notes", "", "free-form notes recorded in the archive")
	generateCmd.Flags().StringVar(&genTags, "tags", "", "comma-separated tags recorded in the archive")

	rootCmd.AddCommand(serveCmd, generateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
