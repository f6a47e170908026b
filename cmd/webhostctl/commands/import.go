package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"webhost-storefront/internal/importer"
	catalogrepo "webhost-storefront/internal/repository/catalog"
)

func importPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-plans [file.csv]",
		Short: "Upsert hosting, WordPress and addon plans from a CSV sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			pool, err := connect(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer pool.Close()

			start := time.Now()
			imp := importer.NewCSVImporter(f, catalogrepo.NewPostgres(pool, logger), logger)
			stats, err := imp.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("import failed after %d rows: %w", stats.Total(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d plans in %s\n", stats.Total(), time.Since(start).Truncate(time.Millisecond))
			return nil
		},
	}
}
