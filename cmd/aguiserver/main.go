//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Command aguiserver serves an echo agent over the AG-UI protocol.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"trpc.group/trpc-go/trpc-agui-go/log"
	"trpc.group/trpc-go/trpc-agui-go/server/agui"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/runner"
	"trpc.group/trpc-go/trpc-agui-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-agui-go/telemetry/trace"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "aguiserver",
		Short:        "Serve an echo agent over AG-UI",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

// newServer builds the AG-UI server described by cfg.
func newServer(cfg *Config) (*agui.Server, error) {
	runnerOpts := []runner.Option{runner.WithVerification(cfg.Verify)}
	if cfg.MaxConcurrentRuns > 0 {
		runnerOpts = append(runnerOpts, runner.WithMaxConcurrentRuns(cfg.MaxConcurrentRuns))
	}
	opts := []agui.Option{
		agui.WithPath(cfg.Path),
		agui.WithHealthPath(cfg.HealthPath),
		agui.WithProtobuf(cfg.Protobuf),
		agui.WithRunnerOptions(runnerOpts...),
	}
	if len(cfg.AllowedOrigins) > 0 {
		opts = append(opts, agui.WithAllowedOrigins(cfg.AllowedOrigins...))
	}
	return agui.New(newEchoAgent(cfg.ChunkDelay), opts...)
}

func serve(ctx context.Context, cfg *Config) error {
	log.SetLevel(cfg.LogLevel)
	if cfg.OTLPEndpoint != "" {
		cleanTrace, err := trace.Start(ctx, trace.WithEndpoint(cfg.OTLPEndpoint))
		if err != nil {
			return fmt.Errorf("start tracing: %w", err)
		}
		defer cleanTrace()
		cleanMetric, err := metric.Start(ctx, metric.WithEndpoint(cfg.OTLPEndpoint))
		if err != nil {
			return fmt.Errorf("start metrics: %w", err)
		}
		defer cleanMetric()
	}

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}
	if err := srv.Init(ctx); err != nil {
		return fmt.Errorf("init agent: %w", err)
	}
	httpServer := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("aguiserver: listening on %s, run path %s", cfg.Addr, srv.Path())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Infof("aguiserver: shutting down")
		return errors.Join(httpServer.Shutdown(shutdownCtx), srv.Shutdown(shutdownCtx))
	})
	return g.Wait()
}
