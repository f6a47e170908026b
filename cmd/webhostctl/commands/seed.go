package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	catalogrepo "webhost-storefront/internal/repository/catalog"
	"webhost-storefront/internal/seed"
)

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the default (or a custom YAML) plan catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read seed file: %w", err)
				}
				data = b
			}
			catalog, err := seed.Parse(data)
			if err != nil {
				return err
			}

			pool, err := connect(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer pool.Close()

			return seed.Apply(cmd.Context(), catalogrepo.NewPostgres(pool, logger), catalog, logger)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to load instead of the built-in one")
	return cmd
}
