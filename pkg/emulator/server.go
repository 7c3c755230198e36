// Package emulator runs the embedded S3-compatible server with
// filesystem-backed persistence.
package emulator

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3afero"
	"github.com/spf13/afero"

	"github.com/offlinehq/s3local/internal/logger"
)

// Config describes how the emulator is started.
type Config struct {
	// Address is the hostname or IP to bind.
	Address string

	// Port is the TCP port to bind. 0 requests an ephemeral port; the
	// actual bound port is reported by Server.Port.
	Port int

	// Directory is the object-storage root. It must exist; each bucket
	// becomes a subdirectory.
	Directory string

	// CORS enables permissive cross-origin headers on every response.
	CORS bool

	// Quiet discards the emulator's own request logging.
	Quiet bool
}

// Server is a running emulator instance. It exists from a successful Start
// until Close and is not reusable afterwards.
type Server struct {
	httpSrv   *http.Server
	listener  net.Listener
	port      int
	closeOnce sync.Once
}

// Start binds the configured address and begins serving the S3 API in the
// background. It returns exactly once, with either a running server or an
// error; there is no separate readiness phase.
func Start(cfg Config) (*Server, error) {
	base := afero.NewBasePathFs(afero.NewOsFs(), cfg.Directory)
	backend, err := s3afero.MultiBucket(base)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem backend at %q: %w", cfg.Directory, err)
	}

	log := gofakes3.GlobalLog()
	if cfg.Quiet {
		log = gofakes3.DiscardLog()
	}
	faker := gofakes3.New(backend, gofakes3.WithLogger(log))

	var handler http.Handler = faker.Server()
	if cfg.CORS {
		handler = allowAllCORS(handler)
	}

	addr := net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	srv := &Server{
		httpSrv:  &http.Server{Handler: handler},
		listener: ln,
		port:     ln.Addr().(*net.TCPAddr).Port,
	}

	go func() {
		if err := srv.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("emulator serve error", "error", err)
		}
	}()

	return srv, nil
}

// Port returns the actual bound port, which may differ from the requested
// one when an ephemeral port was requested.
func (s *Server) Port() int {
	return s.port
}

// Close stops accepting connections and releases the listener. Best-effort;
// safe to call more than once.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.httpSrv.Close()
	})
	return err
}
