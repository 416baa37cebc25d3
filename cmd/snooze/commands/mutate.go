package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"hackorsnooze/internal/domain"
)

func submitCmd(o *options) *cobra.Command {
	var d domain.Draft
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Post a new story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			story, err := st.SubmitStory(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted %q [%s]\n", story.Title, story.StoryID)
			return nil
		},
	}
	cmd.Flags().StringVar(&d.Author, "author", "", "story author")
	cmd.Flags().StringVar(&d.Title, "title", "", "story title")
	cmd.Flags().StringVar(&d.URL, "url", "", "story url")
	for _, f := range []string{"author", "title", "url"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func editCmd(o *options) *cobra.Command {
	var author, title, url string
	cmd := &cobra.Command{
		Use:   "edit <story-id>",
		Short: "Change the author, title or url of one of your stories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.StoryPatch
			if cmd.Flags().Changed("author") {
				patch.Author = &author
			}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("url") {
				patch.URL = &url
			}
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			story, err := st.EditStory(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q (%s)\n", story.Title, story.Hostname())
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "new author")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&url, "url", "", "new url")
	return cmd
}

func deleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <story-id>",
		Short: "Delete one of your stories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := st.DeleteStory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func favoriteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <story-id>",
		Short: "Add a story to your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := st.AddFavorite(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Favorited %s (%d favorites)\n", args[0], len(st.Session.Favorites()))
			return nil
		},
	}
}

func unfavoriteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unfavorite <story-id>",
		Short: "Remove a story from your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := st.RemoveFavorite(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unfavorited %s (%d favorites)\n", args[0], len(st.Session.Favorites()))
			return nil
		},
	}
}

func starCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "star <story-id>",
		Short: "Toggle a story in your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.session(cmd.Context())
			if err != nil {
				return err
			}
			on, err := st.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "no longer a favorite"
			if on {
				state = "now a favorite"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", args[0], state)
			return nil
		},
	}
}
