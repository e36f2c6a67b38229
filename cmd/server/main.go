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

	"docsite-frame-checker/internal/config"
	"docsite-frame-checker/internal/languages"
	"docsite-frame-checker/internal/robots"
	"docsite-frame-checker/internal/site"
	"docsite-frame-checker/internal/versions"
	"docsite-frame-checker/pkg/logger"
)

func main() {
	if err := newServeCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var configPath, addr, contentDir string
	cmd := &cobra.Command{
		Use:           "docsite",
		Short:         "Serve the translated docs site from markdown content",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if cmd.Flags().Changed("addr") {
				overrides["server.addr"] = addr
			}
			if cmd.Flags().Changed("content-dir") {
				overrides["content_dir"] = contentDir
			}
			cfg, err := config.Load(config.LoadOptions{
				ConfigPath:    configPath,
				Required:      cmd.Flags().Changed("config"),
				FlagOverrides: overrides,
			})
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "frame.yml", "YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :4000)")
	cmd.Flags().StringVar(&contentDir, "content-dir", "", "content directory (default: built-in sample content)")
	return cmd
}

func newHandler(cfg config.Config, l *logger.Logger) (http.Handler, error) {
	langs := languages.Default()
	if cfg.LanguagesFile != "" {
		var err error
		if langs, err = languages.LoadFile(cfg.LanguagesFile); err != nil {
			return nil, err
		}
	}
	catalog := versions.Default()
	if cfg.VersionsFile != "" {
		var err error
		if catalog, err = versions.LoadFile(cfg.VersionsFile); err != nil {
			return nil, err
		}
	}
	policy, err := robots.NewPolicy(langs, catalog, cfg.Robots.Disallow)
	if err != nil {
		return nil, err
	}
	opts := site.Options{
		Languages: langs,
		Catalog:   catalog,
		Policy:    policy,
		SiteURL:   cfg.SiteURL,
		Logger:    l,
	}
	if cfg.ContentDir != "" {
		opts.Content = os.DirFS(cfg.ContentDir)
	}
	srv, err := site.New(opts)
	if err != nil {
		return nil, err
	}
	return srv.Handler(), nil
}

func serve(cfg config.Config) error {
	l := logger.NewWithOptions(os.Stderr, cfg.LogLevel)
	handler, err := newHandler(cfg, l)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		l.Infof("server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-stop:
	}
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	l.Infof("bye")
	return nil
}
