package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"webhost-storefront/internal/domain"
	userrepo "webhost-storefront/internal/repository/user"
	usersvc "webhost-storefront/internal/service/user"
)

func grantRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-role [email] [customer|support|admin]",
		Short: "Change a user's role, e.g. to bootstrap the first admin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connect(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer pool.Close()

			users := userrepo.NewPostgres(pool, logger)
			u, err := users.GetByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("find user %q: %w", args[0], err)
			}

			updated, err := usersvc.New(users, logger).UpdateRole(cmd.Context(), u.ID, domain.Role(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.Email, updated.Role)
			return nil
		},
	}
}
