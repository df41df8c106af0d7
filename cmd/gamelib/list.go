package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mmcdole/gamelib/internal/library"
	"github.com/spf13/cobra"
)

const (
	listDebounce = 10 * time.Millisecond
	settleQuiet  = 300 * time.Millisecond
)

type listOptions struct {
	query    string
	pages    int
	pageSize int
	compat   bool
	timeout  time.Duration
}

var listOpts = listOptions{pages: 1, timeout: 15 * time.Second}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the merged library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, listOpts)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOpts.query, "query", "q", "", "only list names containing this text")
	listCmd.Flags().IntVarP(&listOpts.pages, "pages", "p", 1, "number of pages to print")
	listCmd.Flags().IntVar(&listOpts.pageSize, "page-size", 0, "entries per page (default from config)")
	listCmd.Flags().BoolVar(&listOpts.compat, "compat", false, "wait for compatibility statuses")
	listCmd.Flags().DurationVar(&listOpts.timeout, "timeout", 15*time.Second, "give up waiting for sources after this long")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, opts listOptions) error {
	if opts.timeout <= 0 {
		opts.timeout = 15 * time.Second
	}
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, logger, listDebounce)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	a.svc.Start(ctx)
	if opts.pageSize > 0 {
		a.svc.SetPageSize(opts.pageSize)
	}
	if opts.query != "" {
		a.svc.SetSearching(true)
		a.svc.SetQuery(opts.query)
	}
	for range max(opts.pages, 1) - 1 {
		waitSettled(ctx, a.svc)
		a.svc.PageChange(1)
	}
	snap := waitSettled(ctx, a.svc)
	if opts.compat {
		a.svc.Wait()
		snap = a.svc.Snapshot()
	}

	printEntries(cmd.OutOrStdout(), snap, opts.compat)
	return nil
}

// waitSettled returns once the store is idle and no change arrived for a
// quiet period, or when ctx ends.
func waitSettled(ctx context.Context, svc *library.Service) library.Snapshot {
	updates, stop := svc.Updates()
	defer stop()

	quiet := time.NewTimer(settleQuiet)
	defer quiet.Stop()
	for {
		select {
		case <-ctx.Done():
			return svc.Snapshot()
		case <-updates:
			quiet.Reset(settleQuiet)
		case <-quiet.C:
			if snap := svc.Snapshot(); !snap.IsLoading {
				return snap
			}
			quiet.Reset(settleQuiet)
		}
	}
}

func printEntries(out io.Writer, snap library.Snapshot, withCompat bool) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range snap.Entries {
		var flags []string
		if e.Installed {
			flags = append(flags, "installed")
		}
		if e.IsShared {
			flags = append(flags, "shared")
		}
		status := ""
		if withCompat {
			status = snap.CompatFor(e.Name).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", strings.ToLower(string(e.Source)), e.Name, strings.Join(flags, ","), status)
	}
	tw.Flush()
	fmt.Fprintf(out, "\n%d of %d games (page %d/%d)\n",
		len(snap.Entries), snap.TotalCount, snap.DisplayPage(), snap.LastPage+1)
}
