package main

import (
	"fmt"
	"slices"

	"github.com/mmcdole/gamelib/internal/adapter"
	"github.com/mmcdole/gamelib/internal/adapter/source"
	"github.com/spf13/cobra"
)

var addFolderCmd = &cobra.Command{
	Use:   "add-folder PATH",
	Short: "Add a game folder outside the custom games root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		folders := source.NewFolderCollector(adapter.ExpandPath(cfg.Sources.CustomRoot), cfg.Sources.CustomFolders, logger)
		if err := folders.AddFolder(args[0]); err != nil {
			return err
		}

		added := folders.Folders()
		if slices.Equal(added, cfg.Sources.CustomFolders) {
			fmt.Fprintln(cmd.OutOrStdout(), "Folder already added.")
			return nil
		}
		cfg.Sources.CustomFolders = added
		if err := adapter.SaveConfig(cfg); err != nil {
			return err
		}

		logger.Info("added custom folder", "path", added[len(added)-1])
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", added[len(added)-1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addFolderCmd)
}
