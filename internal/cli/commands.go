// Package cli handles the command-line interface logic
// using the Cobra library.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/BartekS5/tanamao-migrate/internal/etl"
	"github.com/spf13/cobra"
)

// newCheckCmd verifies that every configured store is reachable.
func newCheckCmd() *cobra.Command {
	opts := &MigrateOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check connectivity to the legacy and target stores",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := c.OutOrStdout()
			fmt.Fprintf(out, "legacy  %s: ok\n", s.cfg.OldDBName)
			fmt.Fprintf(out, "target  %s: ok\n", s.cfg.NewDBName)
			if s.redis != nil {
				fmt.Fprintln(out, "redis   geocode cache: ok")
			} else {
				fmt.Fprintln(out, "redis   not configured, geocode cache in memory")
			}
			if s.sqlDB != nil {
				fmt.Fprintln(out, "sql     run ledger: ok")
			} else {
				fmt.Fprintln(out, "sql     not configured, run ledger disabled")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.ProfileFile, "profile", "p", "", "Path to a TOML run profile")
	return cmd
}

// newStatsCmd prints document counts of both stores.
func newStatsCmd() *cobra.Command {
	opts := &MigrateOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print document counts of the legacy and target stores",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(c.Context(), time.Minute)
			defer cancel()

			legacy, err := etl.NewMongoLegacy(s.legacy, s.cfg.OldDBName).Counts(ctx)
			if err != nil {
				return fmt.Errorf("failed to count legacy collections: %w", err)
			}
			target, err := etl.NewMongoTarget(s.target, s.cfg.NewDBName).Counts(ctx)
			if err != nil {
				return fmt.Errorf("failed to count target collections: %w", err)
			}

			out := c.OutOrStdout()
			printCounts(out, "legacy", legacy)
			printCounts(out, "target", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.ProfileFile, "profile", "p", "", "Path to a TOML run profile")
	return cmd
}

func printCounts(w io.Writer, store string, counts map[string]int64) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s  %-20s %d\n", store, name, counts[name])
	}
}
