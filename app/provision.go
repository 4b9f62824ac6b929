package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/daemon"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

func init() { //nolint: gochecknoinits
	provisionCmd.Flags().StringVar(&provisionUser.Username, "username", "", "login name of the account")
	provisionCmd.Flags().StringVar(&provisionUser.Password, "password", "", "initial password, at least 8 characters")
	provisionCmd.Flags().StringVar(&provisionRole, "role", string(models.RoleAdmin), "role: admin, editor or viewer")
	provisionCmd.Flags().StringVar(&provisionUser.Email, "email", "", "email address")

	_ = provisionCmd.MarkFlagRequired("username")
	_ = provisionCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(provisionCmd)
}

// ErrUnknownRole is returned for a --role other than admin, editor or viewer.
var ErrUnknownRole = errors.New("unknown role")

var (
	provisionUser auth.NewUser
	provisionRole string

	provisionCmd = &cobra.Command{
		Use:   "provision",
		Short: "Create a staff account unless the username exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provisionUser.Role = models.Role(provisionRole)
			if !provisionUser.Role.Valid() {
				return fmt.Errorf("%w: %q", ErrUnknownRole, provisionRole)
			}

			created, err := daemon.Provision(cmd.Context(), &cfg, provisionUser)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "user %q created\n", provisionUser.Username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists\n", provisionUser.Username)
			}

			return nil
		},
	}
)
