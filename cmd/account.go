package cmd

import (
	"context"

	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new user",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check credentials and show account details",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd)
}

func runRegister(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	c, err := e.credentials(true)
	if err != nil {
		return err
	}
	id, err := e.auth.Register(context.Background(), c.Username, c.Password)
	if err != nil {
		return err
	}
	info("\n  Registered %s (user #%d)\n", c.Username, id)
	info("  Set [general] default_user in %s to skip the username prompt.\n\n", configPath())
	return nil
}

func runLogin(_ *cobra.Command, _ []string) error {
	return withSession(func(ctx context.Context, e *env, sess *model.Session) error {
		n, err := e.store.ExpenseCount(ctx, sess.UserID)
		if err != nil {
			return err
		}
		info("\n  Logged in as %s\n", sess.Username)
		info("  %d expenses recorded in %s\n\n", n, e.store.Path())
		return nil
	})
}
