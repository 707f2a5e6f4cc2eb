/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Command originserverd runs the origin server as a standalone process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/badu/originserver/internal/obslog"
	"github.com/badu/originserver/internal/serverd"
	"github.com/badu/originserver/internal/svcconfig"
)

// shutdownGrace bounds how long Shutdown waits for in-flight connections
// to finish their current response before giving up and releasing the
// document root anyway.
const shutdownGrace = 15 * time.Second

var (
	configPath string
	listenAddr string
	docRoot    string
)

var rootCmd = &cobra.Command{
	Use:   "originserverd",
	Short: "Serve static files and the built-in API over HTTP/1.x",
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the origin server until interrupted",
	Example: "# originserverd serve --config originserver.yaml",
	RunE:    runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Configuration file path (defaults built in if empty)")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address, overrides the config file (default :8080)")
	serveCmd.Flags().StringVar(&docRoot, "doc-root", "", "Static document root, overrides the config file (default ./public)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := svcconfig.Default()
	if configPath != "" {
		loaded, err := svcconfig.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if listenAddr != "" {
		cfg.Listen.Address = listenAddr
	}
	if docRoot != "" {
		cfg.DocRoot = docRoot
	}

	log, err := obslog.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer log.Sync()

	srv, err := serverd.New(cfg, log)
	if err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	return srv.Serve()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
