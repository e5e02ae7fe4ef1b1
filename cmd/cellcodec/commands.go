package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/blockberries/cellcodec"
	cellgrpc "github.com/blockberries/cellcodec/grpc"
	"github.com/blockberries/cellcodec/local"
	"github.com/blockberries/cellcodec/server"
	"github.com/blockberries/cellcodec/types"
)

const dialTimeout = 5 * time.Second

func serve(c *cli.Context, log zerolog.Logger) error {
	cfg := server.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = server.LoadConfig(path); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	gs, err := cellgrpc.NewGRPCServer(
		server.WithConfig(cfg),
		server.WithLogger(log),
		server.WithMetrics(server.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}
	defer gs.Close()

	lis, err := net.Listen("tcp", c.String("listen"))
	if err != nil {
		return fmt.Errorf("listen %s: %w", c.String("listen"), err)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := grpc.NewServer()
	gs.Register(s)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", lis.Addr().String()).Msg("serving gRPC")
		return s.Serve(lis)
	})

	var metrics *http.Server
	if addr := c.String("metrics"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info().Str("addr", addr).Msg("serving metrics")
			if err := metrics.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		s.GracefulStop()
		if metrics != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metrics.Shutdown(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}

func decode(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("decode: expected one hex record, got %d arguments", c.NArg())
	}
	data, err := types.DecodeHex(c.Args().First())
	if err != nil {
		return err
	}

	conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.DecodeTransaction(c.Context, data)
	if err != nil {
		return err
	}
	if c.Bool("verify") {
		if err := tx.VerifyHash(); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}

func normalize(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("normalize: expected one value, got %d arguments", c.NArg())
	}
	kind, err := types.ParseScalarKind(c.String("kind"))
	if err != nil {
		return err
	}

	conn, err := local.Open()
	if err != nil {
		return err
	}
	defer conn.Close()

	text, err := conn.NormalizeScalar(c.Context, kind, c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, text)
	return err
}

// connect dials --remote when set and opens an in-process codec
// otherwise.
func connect(c *cli.Context) (cellcodec.Connection, error) {
	addr := c.String("remote")
	if addr == "" {
		return local.Open()
	}
	ctx, cancel := context.WithTimeout(c.Context, dialTimeout)
	defer cancel()
	return cellgrpc.Dial(ctx, addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}
