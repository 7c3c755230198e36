package lifecycle

import "github.com/offlinehq/s3local/pkg/stack"

// Built-in defaults, applied after the template's declarative settings and
// the explicit run options.
const (
	DefaultPort      = 4569
	DefaultAddress   = "localhost"
	DefaultDirectory = "./buckets"
)

// Config is the merged run configuration for one start invocation.
type Config struct {
	Port      int
	Address   string
	Directory string
	CORS      bool
	NoStart   bool

	// Buckets are created in addition to those declared in the template.
	Buckets []string
}

// Options are the explicit run options. Nil fields were not given and fall
// through to the template's settings, then to the defaults. A non-nil field
// always wins, including Port pointing at 0 (ephemeral).
type Options struct {
	Port      *int
	Address   *string
	Directory *string
	CORS      *bool
	NoStart   *bool
	Buckets   []string
}

// MergeConfig builds the run configuration by overlaying explicit options
// onto the template's declarative settings; explicit options win on key
// collision.
func MergeConfig(opts Options, settings stack.Settings) Config {
	cfg := Config{
		Port:      DefaultPort,
		Address:   DefaultAddress,
		Directory: DefaultDirectory,
	}

	if settings.Port != nil {
		cfg.Port = *settings.Port
	}
	if settings.Address != nil {
		cfg.Address = *settings.Address
	}
	if settings.Directory != nil {
		cfg.Directory = *settings.Directory
	}
	if settings.Cors != nil {
		cfg.CORS = *settings.Cors
	}
	if settings.NoStart != nil {
		cfg.NoStart = *settings.NoStart
	}
	cfg.Buckets = settings.Buckets

	if opts.Port != nil {
		cfg.Port = *opts.Port
	}
	if opts.Address != nil {
		cfg.Address = *opts.Address
	}
	if opts.Directory != nil {
		cfg.Directory = *opts.Directory
	}
	if opts.CORS != nil {
		cfg.CORS = *opts.CORS
	}
	if opts.NoStart != nil {
		cfg.NoStart = *opts.NoStart
	}
	if opts.Buckets != nil {
		cfg.Buckets = opts.Buckets
	}

	return cfg
}
