package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/config"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/outbox"
)

func relayCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Relay committed outbox events to Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			publisher, closePublisher := newPublisher(cfg)
			defer closePublisher()

			relay := outbox.NewRelay(st, publisher, cfg.OutboxInterval)
			if once {
				n, err := relay.Flush(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("relayed %d events\n", n)
				return nil
			}
			relay.Run(ctx)
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "publish one batch and exit")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending MySQL schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.DriverMySQL {
				return fmt.Errorf("STORE_DRIVER is %q, this command needs %q", cfg.StoreDriver, config.DriverMySQL)
			}
			version, err := database.MigrateUp(cfg.DSN)
			if err != nil {
				return err
			}
			logging.Info("migrate", fmt.Sprintf("schema at version %d", version))
			return nil
		},
	}
}

// tokenCmd signs a bearer token for local testing. Accounts and login live
// outside this service.
func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token [user-id]",
		Short: "Print a signed bearer token for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL).GenerateToken(userID)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}
