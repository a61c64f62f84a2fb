package startcmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/common"
	"github.com/pilacorp/go-did-sandbox/config"
	"github.com/pilacorp/go-did-sandbox/internal/log"
	"github.com/pilacorp/go-did-sandbox/internal/logfields"
	"github.com/pilacorp/go-did-sandbox/internal/server"
	"github.com/pilacorp/go-did-sandbox/sandbox"
)

const (
	hostURLFlagName      = "host-url"
	hostURLFlagShorthand = "u"
	hostURLFlagUsage     = "URL to run the sandbox instance on. Format: HostName:Port." +
		" Alternatively, this can be set with the following environment variable: " + config.EnvHostURL

	keySourceFlagName  = "key-source"
	keySourceFlagUsage = "Where generated DIDs get their keys from. Possible values [random] [secp256k1]." +
		" Alternatively, this can be set with the following environment variable: " + config.EnvKeySource

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var logger = log.New("did-sandbox")

type httpServer interface {
	ListenAndServe(host string, router http.Handler) error
	Shutdown(ctx context.Context) error
}

// HTTPServer represents an actual HTTP server implementation.
type HTTPServer struct {
	mu     sync.Mutex
	server *http.Server
	closed bool
}

// ListenAndServe starts the server using the standard Go HTTP server
// implementation. It returns nil once Shutdown has been called.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.server = &http.Server{
		Addr:              host,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	srv := s.server
	s.mu.Unlock()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetStartCmd returns the Cobra start command.
func GetStartCmd(srv httpServer) *cobra.Command {
	startCmd := createStartCmd(srv)

	createFlags(startCmd)

	return startCmd
}

func createStartCmd(srv httpServer) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the DID sandbox server",
		Long:  "Start the DID sandbox REST API with the step-by-step walkthrough and Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getParameters(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return startSandbox(ctx, cfg, srv)
		},
	}
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	startCmd.Flags().String(keySourceFlagName, "", keySourceFlagUsage)
	common.AddConfigFlags(startCmd)
}

func getParameters(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := common.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed(hostURLFlagName) {
		if cfg.HostURL, err = cmd.Flags().GetString(hostURLFlagName); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed(keySourceFlagName) {
		if cfg.KeySource, err = cmd.Flags().GetString(keySourceFlagName); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func startSandbox(ctx context.Context, cfg *config.Config, srv httpServer) error {
	common.SetDefaultLogLevel(logger, cfg.LogLevel)

	reg := prometheus.NewRegistry()

	sim, err := common.NewSimulator(cfg, reg)
	if err != nil {
		return err
	}

	router := server.New(sim, sandbox.NewManager(sandbox.SimulatorScope(sim), log.New("sandbox")), server.WithGatherer(reg))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()

		logger.Info("Starting DID sandbox server", logfields.WithHostURL(cfg.HostURL))

		return srv.ListenAndServe(cfg.HostURL, router.Handler())
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		logger.Info("Stopping DID sandbox server")

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
