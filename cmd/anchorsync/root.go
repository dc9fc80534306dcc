package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/okatz/anchorsync/pkg/config"
	"github.com/okatz/anchorsync/pkg/deltacache"
	"github.com/okatz/anchorsync/pkg/gateway"
	"github.com/okatz/anchorsync/pkg/reconcile"
	"github.com/okatz/anchorsync/pkg/registry"
	"github.com/okatz/anchorsync/pkg/vault"
)

// tokenEnv carries the bearer token for the remote service. Obtaining
// and refreshing it is outside this tool's scope.
const tokenEnv = "ANCHORSYNC_TOKEN"

var (
	verbose   bool
	vaultPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "anchorsync",
	Short: "Reconcile markdown checklists with a remote to-do service",
	Long: `Anchorsync tracks checklist lines in a vault of markdown pages
against tasks in a remote to-do service. Each tracked line carries a
short anchor token; anchorsync decides per task which side is
authoritative and writes the change back to the stale one.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{Level: level}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", ".", "Path to the document vault")
}

// app bundles everything a verb needs.
type app struct {
	cfg        config.Config
	vault      *vault.Vault
	settings   *vault.SettingsStore
	registry   *registry.Store
	cache      *deltacache.Store
	gateway    gateway.Service
	reconciler *reconcile.Reconciler
}

func buildApp(ctx context.Context) (*app, error) {
	logger := slog.Default()

	cfg, err := config.Load(filepath.Join(vaultPath, vault.DefaultSystemDir, "config.yaml"))
	if err != nil {
		return nil, err
	}

	v, err := vault.New(vaultPath, logger)
	if err != nil {
		return nil, err
	}
	if len(cfg.Include) > 0 {
		v.Include = cfg.Include
	}
	v.Exclude = cfg.Exclude

	settings := vault.NewSettingsStore(vaultPath, v.SystemDir)
	if err := settings.Load(); err != nil {
		return nil, err
	}
	reg := registry.New(settings, logger)

	cache := deltacache.NewStore(vaultPath, v.SystemDir, logger)
	if err := cache.Load(); err != nil {
		logger.Warn("failed to load delta cache", "error", err)
	}

	token := os.Getenv(tokenEnv)
	if token == "" {
		return nil, errors.New(tokenEnv + " is not set")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	gw := gateway.NewClient(ctx, ts, cfg.BaseURL, logger)

	rec := reconcile.New(gw, v, reg, cache, settings, reconcile.Config{
		DefaultList:    cfg.DefaultList,
		AutoCreateList: cfg.AutoCreateList,
		Options:        cfg.Display,
	}, reconcile.WithLogger(logger))

	return &app{
		cfg:        cfg,
		vault:      v,
		settings:   settings,
		registry:   reg,
		cache:      cache,
		gateway:    gw,
		reconciler: rec,
	}, nil
}
