package commands

import (
	"fmt"
	"os"

	"github.com/offlinehq/s3local/internal/logger"
	"github.com/offlinehq/s3local/pkg/config"
	"github.com/offlinehq/s3local/pkg/stack"
)

// defaultTemplatePath is used when no template is configured explicitly.
const defaultTemplatePath = "serverless.yml"

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadTemplate loads the deployment template. An empty path falls back to
// ./serverless.yml when present; a template that was never named and does
// not exist yields an empty template rather than an error.
func loadTemplate(path string) (*stack.Template, error) {
	if path == "" {
		if _, err := os.Stat(defaultTemplatePath); err != nil {
			return &stack.Template{}, nil
		}
		path = defaultTemplatePath
	}
	return stack.Load(path)
}
