package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/signalsfoundry/geo-distance/internal/config"
	"github.com/signalsfoundry/geo-distance/internal/distance"
	"github.com/signalsfoundry/geo-distance/internal/httpapi"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/signalsfoundry/geo-distance/internal/observability"
	"github.com/signalsfoundry/geo-distance/internal/rpc"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	cobra.CheckErr(newRootCmd().ExecuteContext(context.Background()))
}

func newRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "geo-server [flags]",
		Short:         "geo-server computes great-circle distances over HTTP and gRPC",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log := logging.New(cfg.Log)
			gin.SetMode(gin.ReleaseMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			grpcLis, err := listen(cfg.GRPCAddr)
			if err != nil {
				return fmt.Errorf("listen for gRPC on %s: %w", cfg.GRPCAddr, err)
			}
			httpLis, err := listen(cfg.HTTPAddr)
			if err != nil {
				if grpcLis != nil {
					_ = grpcLis.Close()
				}
				return fmt.Errorf("listen for HTTP on %s: %w", cfg.HTTPAddr, err)
			}
			return run(ctx, cfg, log, grpcLis, httpLis)
		},
	}
	cobra.CheckErr(config.RegisterFlags(v, cmd.Flags()))
	return cmd
}

// listen returns a nil listener for an empty address, which disables that
// transport.
func listen(addr string) (net.Listener, error) {
	if addr == "" {
		return nil, nil
	}
	return net.Listen("tcp", addr)
}

// run serves gRPC on grpcLis and HTTP on httpLis until ctx is cancelled or a
// server fails, then shuts everything down within cfg.ShutdownTimeout.
// Either listener may be nil.
func run(ctx context.Context, cfg config.Config, log logging.Logger, grpcLis, httpLis net.Listener) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	var collector *observability.Collector
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector, err = observability.NewCollector(reg)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
	}

	svc := distance.NewService(log,
		distance.WithPolicy(cfg.MethodPolicy),
		distance.WithRecorder(collector),
	)
	log.Info(ctx, "distance service ready", logging.String("method_policy", string(svc.Policy())))

	errCh := make(chan error, 2)

	var (
		grpcServer *grpc.Server
		healthSrv  *health.Server
	)
	if grpcLis != nil {
		grpcServer, healthSrv = rpc.NewServer(rpc.NewGeoService(svc, log), log, collector)

		log.Info(ctx, "starting gRPC server", logging.String("addr", grpcLis.Addr().String()))
		go func() {
			if err := grpcServer.Serve(grpcLis); err != nil {
				errCh <- fmt.Errorf("gRPC server: %w", err)
			}
		}()
	}

	var httpServer *http.Server
	if httpLis != nil {
		router := httpapi.NewRouter(httpapi.NewGeoHandler(svc, log), log, collector)
		httpServer = &http.Server{
			Handler:           otelhttp.NewHandler(router, "geo-http"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		log.Info(ctx, "starting HTTP server",
			logging.String("addr", httpLis.Addr().String()),
			logging.Bool("metrics", collector != nil),
		)
		go func() {
			if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("HTTP server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down geo-server")
	case runErr = <-errCh:
		log.Error(context.Background(), "server exited", logging.Err(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if healthSrv != nil {
		healthSrv.Shutdown()
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn(shutdownCtx, "HTTP server forced shutdown", logging.Err(err))
		}
	}
	if grpcServer != nil {
		stopGRPC(shutdownCtx, grpcServer, log)
	}

	log.Info(context.Background(), "geo-server stopped")
	return runErr
}

func stopGRPC(ctx context.Context, server *grpc.Server, log logging.Logger) {
	done := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn(ctx, "gRPC graceful stop timed out; forcing stop")
		server.Stop()
	}
}
