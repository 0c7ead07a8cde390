package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/coxswain/core"
	"pkt.systems/coxswain/httpapi"
	"pkt.systems/coxswain/internal/appconfig"
	"pkt.systems/coxswain/internal/eventbus"
	"pkt.systems/coxswain/internal/notify"
	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var demoMode bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the coxswain sync gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)

			configPath, wrote, err := appconfig.EnsureDefault(cfgPath)
			if err != nil {
				return err
			}
			if wrote {
				logger.Info("serve wrote default config", "path", configPath)
			}
			cfg, err := appconfig.Load(configPath)
			if err != nil {
				return err
			}
			if demoMode {
				cfg.DemoMode = true
			}
			syncCfg, err := schema.NormalizeSyncConfig(cfg.SyncConfig())
			if err != nil {
				return err
			}

			provider := core.NewProvider(syncCfg, logger)
			source, err := provider.Source()
			if err != nil {
				return err
			}
			defer func() { _ = provider.Close() }()

			service := core.NewService(source, logger)
			bus := eventbus.New(logger)
			notifier := notify.NewManager(bus, logger)
			defer notifier.Close()

			monitor := core.NewHealthMonitor(source, syncCfg.HealthInterval, bus, logger)
			monitor.Start(ctx)
			defer monitor.Stop()

			hub := httpapi.NewHub(1000, logger)
			go hub.Run(ctx, bus)

			server := httpapi.NewServer(httpapi.Config{
				Addr:   cfg.HTTP.Addr,
				UserID: syncCfg.UserID,
			}, service, monitor, notifier, hub)

			logger.Info("coxswain serving",
				"addr", cfg.HTTP.Addr,
				"demo", syncCfg.DemoMode,
				"endpoint", syncCfg.Endpoint,
				"health_interval", syncCfg.HealthInterval)
			return httpapi.ListenAndServe(ctx, cfg.HTTP.Addr, server.Handler())
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	cmd.Flags().BoolVar(&demoMode, "demo", false, "serve fixture data instead of a live orchestrator")
	return cmd
}
