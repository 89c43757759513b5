package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tanamao-migrate",
		Short: "tanamao-migrate - legacy to new schema migration for Tá na Mão",
		Long: `tanamao-migrate copies users, paymethods, companies and catalogs from the
legacy MongoDB database into the new schema. Companies are geocoded into
delivery areas and legacy products are classified into the typed catalog.
Runs are idempotent: records already migrated are updated in place.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewMigrateCmd(), newCheckCmd(), newStatsCmd())

	return rootCmd
}
