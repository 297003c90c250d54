package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mytheresa/content-portal/cmd/cms/output"
	"github.com/mytheresa/content-portal/models"
)

var (
	newUsername string
	newEmail    string
	newPassword string
	newStaff    bool
)

var createUserCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Create a site account",
	Long: `Create an account that can sign in to the site, and with --staff to the admin
console. The password is read from --password or the CMS_PASSWORD environment variable.

Examples:
  cms createuser --username ada --email ada@example.com --staff
  CMS_PASSWORD=secret cms createuser --username bob`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateUser(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "Login name (required)")
	createUserCmd.Flags().StringVar(&newEmail, "email", "", "Email address")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "Password (default $CMS_PASSWORD)")
	createUserCmd.Flags().BoolVar(&newStaff, "staff", false, "Allow the account into the admin console")
	_ = createUserCmd.MarkFlagRequired("username")
}

func runCreateUser(ctx context.Context) error {
	password := newPassword
	if password == "" {
		password = os.Getenv("CMS_PASSWORD")
	}
	if password == "" {
		return errors.New("a password is required: use --password or CMS_PASSWORD")
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	user := models.NewUser(newUsername, newEmail)
	user.IsStaff = newStaff
	if err := user.SetPassword(password); err != nil {
		return err
	}
	err = models.NewUsersRepository(e.db).CreateUser(ctx, user)
	if errors.Is(err, models.ErrDuplicate) {
		return fmt.Errorf("user %q already exists", newUsername)
	}
	if err != nil {
		return err
	}

	role := "user"
	if user.IsStaff {
		role = "staff user"
	}
	output.Success("Created %s %s (id %d)", role, user.Username, user.ID)
	return nil
}
