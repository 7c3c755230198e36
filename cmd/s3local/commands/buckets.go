package commands

import (
	"github.com/spf13/cobra"

	"github.com/offlinehq/s3local/internal/cli/output"
	"github.com/offlinehq/s3local/pkg/config"
	"github.com/offlinehq/s3local/pkg/lifecycle"
	"github.com/offlinehq/s3local/pkg/resolver"
)

var (
	bucketsTemplate string
	bucketsExplicit []string
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Show the resolved bucket plan",
	Long: `Resolve the buckets that a start invocation would create, from the
deployment template, its additional stacks, and --bucket flags, without
starting anything.`,
	RunE: runBuckets,
}

func init() {
	f := bucketsCmd.Flags()
	f.StringVar(&bucketsTemplate, "template", "", "Path to the deployment template (default: ./serverless.yml if present)")
	f.StringArrayVar(&bucketsExplicit, "bucket", nil, "Extra bucket to include in the plan (repeatable)")
}

func runBuckets(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	templatePath := cfg.Template
	if cmd.Flags().Changed("template") {
		templatePath = bucketsTemplate
	}
	tmpl, err := loadTemplate(templatePath)
	if err != nil {
		return err
	}

	var opts lifecycle.Options
	if cmd.Flags().Changed("bucket") {
		opts.Buckets = bucketsExplicit
	}
	runCfg := lifecycle.MergeConfig(opts, tmpl.Custom.S3)
	plan := resolver.PlanTemplate(tmpl, runCfg.Buckets)

	output.PrintBucketPlan(cmd.OutOrStdout(), plan)
	return nil
}
