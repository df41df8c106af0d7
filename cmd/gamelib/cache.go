package main

import (
	"fmt"

	"github.com/mmcdole/gamelib/internal/adapter"
	"github.com/mmcdole/gamelib/internal/store"
	"github.com/spf13/cobra"
)

var clearAll bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the compatibility cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget cached compatibility results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		if clearAll {
			if err := adapter.ClearCache(cfg); err != nil {
				return err
			}
			logger.Info("cleared all compatibility caches")
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all compatibility caches.")
			return nil
		}

		identity := compatIdentity(cfg)
		cs, err := store.NewCompatStore(adapter.ExpandPath(cfg.Cache.Path), identity)
		if err != nil {
			return fmt.Errorf("failed to open compatibility cache: %w", err)
		}
		defer cs.Close()

		if err := cs.Clear(); err != nil {
			return fmt.Errorf("failed to clear compatibility cache: %w", err)
		}
		logger.Info("cleared compatibility cache", "identity", identity)
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared compatibility cache for %q.\n", identity)
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&clearAll, "all", false, "remove the caches of every device identity")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
