package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/offlinehq/s3local/internal/logger"
	"github.com/offlinehq/s3local/pkg/config"
	"github.com/offlinehq/s3local/pkg/lifecycle"
)

var (
	startPort      int
	startAddress   string
	startDirectory string
	startBuckets   []string
	startCORS      bool
	startNoStart   bool
	startTemplate  string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the local S3 emulator and provision buckets",
	Long: `Start the embedded S3-compatible emulator and create every bucket
resolved from the deployment template, its additional stacks, and the
--bucket flags.

Settings given as flags override the template's custom s3 block.

Examples:
  # Start with defaults (localhost:4569, ./buckets)
  s3local start

  # Start on an ephemeral port with extra buckets
  s3local start --port 0 --bucket uploads --bucket thumbnails

  # Provision buckets against an already-running emulator
  s3local start --no-start --port 4569`,
	RunE: runStart,
}

func init() {
	f := startCmd.Flags()
	f.IntVar(&startPort, "port", lifecycle.DefaultPort, "Port to bind the emulator to (0 picks an ephemeral port)")
	f.StringVar(&startAddress, "address", lifecycle.DefaultAddress, "Hostname or IP to bind")
	f.StringVar(&startDirectory, "directory", lifecycle.DefaultDirectory, "Object storage root directory (created if missing)")
	f.StringArrayVar(&startBuckets, "bucket", nil, "Bucket to create at startup (repeatable)")
	f.BoolVar(&startCORS, "cors", false, "Enable permissive CORS headers on the emulator")
	f.BoolVar(&startNoStart, "no-start", false, "Do not spawn the emulator; provision buckets against the configured port")
	f.StringVar(&startTemplate, "template", "", "Path to the deployment template (default: ./serverless.yml if present)")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	templatePath := cfg.Template
	if cmd.Flags().Changed("template") {
		templatePath = startTemplate
	}
	tmpl, err := loadTemplate(templatePath)
	if err != nil {
		return err
	}

	runCfg := lifecycle.MergeConfig(startOptions(cmd), tmpl.Custom.S3)

	orch := lifecycle.New()
	handle, err := orch.Start(context.Background(), runCfg, tmpl)
	if err != nil {
		// The handle may still own a running server when provisioning
		// failed after a successful start.
		orch.Stop(handle)
		return err
	}

	if !handle.Owned() {
		// noStart: buckets were provisioned against an external server;
		// there is nothing to keep alive.
		return nil
	}

	logger.Info("Emulator is running. Press Ctrl+C to stop.",
		"endpoint", fmt.Sprintf("http://%s:%d", runCfg.Address, handle.Port()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	signal.Stop(sigChan)

	logger.Info("Shutdown signal received, stopping emulator")
	orch.Stop(handle)
	return nil
}

// startOptions builds the explicit run options from the flags the user
// actually set, so unset flags fall through to the template's settings.
func startOptions(cmd *cobra.Command) lifecycle.Options {
	var opts lifecycle.Options
	flags := cmd.Flags()

	if flags.Changed("port") {
		opts.Port = &startPort
	}
	if flags.Changed("address") {
		opts.Address = &startAddress
	}
	if flags.Changed("directory") {
		opts.Directory = &startDirectory
	}
	if flags.Changed("cors") {
		opts.CORS = &startCORS
	}
	if flags.Changed("no-start") {
		opts.NoStart = &startNoStart
	}
	if flags.Changed("bucket") {
		opts.Buckets = startBuckets
	}
	return opts
}
