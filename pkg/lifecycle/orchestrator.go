// Package lifecycle orchestrates the emulator's start/stop sequence: resolve
// the bucket plan, start (or skip) the embedded server, then provision every
// bucket against the bound port.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/offlinehq/s3local/internal/logger"
	"github.com/offlinehq/s3local/pkg/emulator"
	"github.com/offlinehq/s3local/pkg/provision"
	"github.com/offlinehq/s3local/pkg/resolver"
	"github.com/offlinehq/s3local/pkg/stack"
)

// Server is the running emulator as seen by the orchestrator.
type Server interface {
	Port() int
	Close() error
}

// Provisioner creates buckets against a running endpoint.
type Provisioner interface {
	CreateBuckets(ctx context.Context, names []string) error
}

// StartServerFunc starts the emulator.
type StartServerFunc func(emulator.Config) (Server, error)

// NewProvisionerFunc builds a provisioner for an endpoint.
type NewProvisionerFunc func(ctx context.Context, endpoint string) (Provisioner, error)

// Orchestrator drives one start/stop lifecycle pair. It owns the only
// reference to the emulator it starts; no other component may stop it.
type Orchestrator struct {
	startServer    StartServerFunc
	newProvisioner NewProvisionerFunc
}

// New returns an orchestrator wired to the real emulator and S3 client.
func New() *Orchestrator {
	return &Orchestrator{
		startServer: func(cfg emulator.Config) (Server, error) {
			return emulator.Start(cfg)
		},
		newProvisioner: func(ctx context.Context, endpoint string) (Provisioner, error) {
			return provision.New(ctx, endpoint)
		},
	}
}

// Handle is the explicit ownership object for one lifecycle pair. It holds a
// server only when this process started one; with noStart the handle carries
// just the externally-owned port.
type Handle struct {
	server Server
	port   int
}

// Port returns the port buckets were provisioned against: the actual bound
// port when the emulator was started here, the configured port otherwise.
func (h *Handle) Port() int {
	return h.port
}

// Owned reports whether this handle owns a running emulator.
func (h *Handle) Owned() bool {
	return h != nil && h.server != nil
}

// Start runs the startup sequence. With NoStart set, no server is spawned
// and buckets are provisioned against the configured port as-is; otherwise
// the storage directory is created and canonicalized, the emulator started,
// and provisioning runs against the actual bound port. Startup must complete
// before any creation call is issued.
//
// When the emulator started but provisioning failed, the returned handle is
// non-nil alongside the error so the caller can still stop the server it
// owns.
func (o *Orchestrator) Start(ctx context.Context, cfg Config, tmpl *stack.Template) (*Handle, error) {
	buckets := resolver.ResolveTemplate(tmpl, cfg.Buckets)

	handle := &Handle{}
	if cfg.NoStart {
		// "No start" means do not spawn a server, not do nothing: the
		// emulator is assumed already running externally on the
		// configured port, and provisioning still happens.
		handle.port = cfg.Port
		logger.Info("emulator startup skipped", "address", cfg.Address, "port", cfg.Port)
	} else {
		dir, err := ensureDirectory(cfg.Directory)
		if err != nil {
			return nil, err
		}

		srv, err := o.startServer(emulator.Config{
			Address:   cfg.Address,
			Port:      cfg.Port,
			Directory: dir,
			CORS:      cfg.CORS,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to start emulator: %w", err)
		}
		handle.server = srv
		handle.port = srv.Port()
		logger.Info("emulator started",
			"address", cfg.Address,
			"port", handle.port,
			"directory", dir,
			"cors", cfg.CORS)
	}

	if len(buckets) == 0 {
		return handle, nil
	}

	endpoint := fmt.Sprintf("http://%s:%d", cfg.Address, handle.port)
	prov, err := o.newProvisioner(ctx, endpoint)
	if err != nil {
		return handle, fmt.Errorf("failed to create storage client for %s: %w", endpoint, err)
	}
	if err := prov.CreateBuckets(ctx, buckets); err != nil {
		return handle, fmt.Errorf("failed to provision buckets: %w", err)
	}
	logger.Info("buckets provisioned", "count", len(buckets), "buckets", buckets)

	return handle, nil
}

// Stop tears down the emulator held by handle. A handle from a noStart run
// owns no server and Stop is a no-op: this process must not stop a server it
// did not start. Close failures are logged, not reported.
func (o *Orchestrator) Stop(handle *Handle) {
	if !handle.Owned() {
		return
	}
	if err := handle.server.Close(); err != nil {
		logger.Warn("emulator close error", "error", err)
	}
	handle.server = nil
	logger.Info("emulator stopped")
}

// ensureDirectory creates the storage directory if missing and resolves it
// to a canonical path.
func ensureDirectory(path string) (string, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory %q: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve storage directory %q: %w", path, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize storage directory %q: %w", abs, err)
	}
	return canonical, nil
}
