package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	geov1 "github.com/signalsfoundry/geo-distance/api/geo/v1"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func main() {
	cobra.CheckErr(newRootCmd().ExecuteContext(context.Background()))
}

type clientOptions struct {
	addr      string
	from      string
	to        string
	method    string
	codec     string
	requestID string
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &clientOptions{}

	cmd := &cobra.Command{
		Use:           "geo-client --from LAT,LON --to LAT,LON [flags]",
		Short:         "geo-client asks a geo-server for the great-circle distance between two points",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClient(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:50051", "geo-server gRPC address (host:port)")
	cmd.Flags().StringVar(&opts.from, "from", "", "origin as `LAT,LON` in decimal degrees")
	cmd.Flags().StringVar(&opts.to, "to", "", "destination as `LAT,LON` in decimal degrees")
	cmd.Flags().StringVar(&opts.method, "method", "", "Cosine or Haversine; empty uses the server default")
	cmd.Flags().StringVar(&opts.codec, "codec", geov1.ProtoCodecName, "wire encoding: proto or json")
	cmd.Flags().StringVar(&opts.requestID, "request-id", "", "request id to propagate; generated when empty")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "call timeout")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runClient(cmd *cobra.Command, opts *clientOptions) error {
	from, err := parsePoint(opts.from)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parsePoint(opts.to)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	req := &geov1.DistanceRequest{From: from, To: to}
	if opts.method != "" {
		m := opts.method
		req.Method = &m
	}

	var callOpts []grpc.CallOption
	switch opts.codec {
	case geov1.ProtoCodecName:
	case geov1.CodecName:
		callOpts = append(callOpts, grpc.CallContentSubtype(geov1.CodecName))
	default:
		return fmt.Errorf("--codec: unknown codec %q", opts.codec)
	}

	requestID := opts.requestID
	if requestID == "" {
		requestID = logging.NewRequestID()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", requestID)

	conn, err := grpc.NewClient(opts.addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return fmt.Errorf("connect %s: %w", opts.addr, err)
	}
	defer func() { _ = conn.Close() }()

	resp, err := geov1.NewGeoClient(conn).GetDistance(ctx, req, callOpts...)
	if err != nil {
		st := status.Convert(err)
		return fmt.Errorf("GetDistance (request %s): %s: %s", requestID, st.Code(), st.Message())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%.3f km\n", resp.GetResult())
	return nil
}

// parsePoint parses "LAT,LON" in decimal degrees. Values are not range
// checked.
func parsePoint(s string) (*geov1.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected LAT,LON, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	return &geov1.Point{Latitude: lat, Longitude: lon}, nil
}
