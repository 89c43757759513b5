package cli

import (
	"context"

	"github.com/BartekS5/tanamao-migrate/internal/etl"
	"github.com/spf13/cobra"
)

type MigrateOptions struct {
	ProfileFile string
	BatchSize   int
}

func NewMigrateCmd() *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy records into the new store",
	}

	cmd.PersistentFlags().StringVarP(&opts.ProfileFile, "profile", "p", "", "Path to a TOML run profile (defaults when empty)")
	cmd.PersistentFlags().IntVarP(&opts.BatchSize, "batch-size", "b", 0, "Batch size for every entity, overrides the profile")

	users := &cobra.Command{
		Use:   "users",
		Short: "Migrate non-temporary users updated since the cutoff",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runMigration(c, opts, single((*etl.Runner).Users))
		},
	}

	paymethods := &cobra.Command{
		Use:   "paymethods",
		Short: "Migrate payment methods",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runMigration(c, opts, single((*etl.Runner).Paymethods))
		},
	}

	companies := &cobra.Command{
		Use:   "companies",
		Short: "Migrate active companies and build their delivery areas",
		Long: `Migrate active companies updated since the cutoff. Each company address is
geocoded and every served city becomes a delivery area. Paymethods must be
migrated first.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runMigration(c, opts, single((*etl.Runner).Companies))
		},
	}

	products := &cobra.Command{
		Use:   "products [company-uri]",
		Short: "Migrate the catalog of one company",
		Long: `Migrate products, categories and catalog shortcuts of the company with the
given legacy uri. The uri is read from stdin when not given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			uri, err := companyURI(c, args)
			if err != nil {
				return err
			}
			return runMigration(c, opts, func(ctx context.Context, r *etl.Runner) ([]*etl.Stats, error) {
				stats, err := r.Products(ctx, uri)
				if err != nil {
					return nil, err
				}
				return []*etl.Stats{stats}, nil
			})
		},
	}

	all := &cobra.Command{
		Use:   "all",
		Short: "Migrate users, paymethods and companies in order",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runMigration(c, opts, func(ctx context.Context, r *etl.Runner) ([]*etl.Stats, error) {
				return r.All(ctx)
			})
		},
	}

	cmd.AddCommand(users, paymethods, companies, products, all)
	return cmd
}
