package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"hackorsnooze/internal/domain"
)

// readPassword returns flagValue, or one line read from in when it is empty.
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", fmt.Errorf("%w: password is required", domain.ErrValidationRejected)
	}
	return pw, nil
}

func signupCmd(o *options) *cobra.Command {
	var name, password string
	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			if name == "" {
				name = username
			}
			st := o.state()
			if err := st.Signup(cmd.Context(), username, pw, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are logged in as %s.\n", st.Session.Name(), st.Session.Username())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (default: the username)")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin if omitted)")
	return cmd
}

func loginCmd(o *options) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			st := o.state()
			if err := st.Login(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%d favorites, %d stories).\n",
				st.Session.Username(), len(st.Session.Favorites()), len(st.Session.OwnStories()))
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin if omitted)")
	return cmd
}

func logoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.state().Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func whoamiCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			s := st.Session
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n  member since %s\n  %d favorites, %d stories\n",
				s.Username(), s.Name(), s.CreatedAt().Format("2006-01-02"), len(s.Favorites()), len(s.OwnStories()))
			return nil
		},
	}
}

func profileCmd(o *options) *cobra.Command {
	var upd domain.ProfileUpdate
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change your display name or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := st.UpdateProfile(cmd.Context(), upd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s (%s).\n", st.Session.Username(), st.Session.Name())
			return nil
		},
	}
	cmd.Flags().StringVar(&upd.Name, "name", "", "new display name")
	cmd.Flags().StringVar(&upd.Password, "password", "", "new password")
	return cmd
}
