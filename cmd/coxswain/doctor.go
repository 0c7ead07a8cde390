package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/coxswain/core"
	"pkt.systems/coxswain/internal/appconfig"
	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

func newDoctorCmd() *cobra.Command {
	var cfgPath string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity to the orchestrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())

			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			configPath := cfgPath
			if strings.TrimSpace(configPath) == "" {
				path, err := appconfig.DefaultConfigPath()
				if err != nil {
					return err
				}
				configPath = path
			}
			logger.Info("doctor start", "config", configPath)

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

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			health, err := source.CheckHealth(ctx)
			if err != nil {
				logger.Error("doctor health check failed", "kind", schema.ErrorKind(err), "err", err)
				return err
			}
			logger.Info("doctor health check ok", "state", health.State, "version", health.Version)

			service := core.NewService(source, logger)
			conversations, err := service.LoadConversations(ctx, schema.LoadConversationsRequest{UserID: syncCfg.UserID})
			if err != nil {
				logger.Error("doctor conversation list failed", "kind", schema.ErrorKind(err), "err", err)
				return err
			}
			logger.Info("doctor conversation list ok", "count", len(conversations.Conversations))

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "orchestrator %s (%s), %d conversation(s)\n",
				health.State, health.Version, len(conversations.Conversations))
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "overall diagnostic timeout")
	return cmd
}
