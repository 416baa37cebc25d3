package commands

import (
	"github.com/spf13/cobra"
)

func storiesCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "List the newest stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := o.state()
			if err := st.Start(cmd.Context()); err != nil {
				return err
			}
			stories := st.Catalog.Stories()
			if limit > 0 && limit < len(stories) {
				stories = stories[:limit]
			}
			printStories(cmd.OutOrStdout(), st, stories)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "show at most this many stories (0 = all)")
	return cmd
}

func mineCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the stories you submitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			printStories(cmd.OutOrStdout(), st, st.Session.OwnStories())
			return nil
		},
	}
}

func favoritesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List your favorite stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			printStories(cmd.OutOrStdout(), st, st.Session.Favorites())
			return nil
		},
	}
}
