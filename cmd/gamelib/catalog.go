package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mmcdole/gamelib/internal/adapter"
	"github.com/mmcdole/gamelib/internal/adapter/source"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Edit the storefront catalog database",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import SOURCE FILE",
	Short: "Insert or update catalog entries from a JSON array",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := source.ParseCatalogSource(args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}
		entries, err := source.ParseEntries(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[1], err)
		}

		catalog, logger, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		if err := catalog.Upsert(cmd.Context(), src, entries); err != nil {
			return fmt.Errorf("failed to import entries: %w", err)
		}
		logger.Info("imported catalog entries", "source", src, "count", len(entries))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s entries.\n", len(entries), src)
		return nil
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove SOURCE ID",
	Short: "Remove one catalog entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := source.ParseCatalogSource(args[0])
		if err != nil {
			return err
		}

		catalog, logger, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		if err := catalog.Delete(cmd.Context(), src, args[1]); err != nil {
			return fmt.Errorf("failed to remove entry: %w", err)
		}
		logger.Info("removed catalog entry", "source", src, "id", args[1])
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s_%s.\n", src, args[1])
		return nil
	},
}

func openCatalog() (*source.Catalog, *slog.Logger, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Sources.CatalogDB == "" {
		return nil, nil, fmt.Errorf("no catalog database configured (set sources.catalog_db)")
	}
	catalog, err := source.OpenCatalog(adapter.ExpandPath(cfg.Sources.CatalogDB))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return catalog, logger, nil
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd, catalogRemoveCmd)
	rootCmd.AddCommand(catalogCmd)
}
