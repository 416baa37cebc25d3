package commands

import (
	"fmt"
	"io"

	"hackorsnooze/internal/app"
	"hackorsnooze/internal/domain"
)

// printStories writes one entry per story. Favorites get a star and the
// user's own stories are tagged.
func printStories(w io.Writer, st *app.State, stories domain.Stories) {
	if len(stories) == 0 {
		fmt.Fprintln(w, "No stories.")
		return
	}
	for _, s := range stories {
		mark := " "
		if st.IsFavorite(s.StoryID) {
			mark = "*"
		}
		own := ""
		if st.IsOwn(s.StoryID) {
			own = " (yours)"
		}
		fmt.Fprintf(w, "%s %s (%s)%s\n", mark, s.Title, s.Hostname(), own)
		fmt.Fprintf(w, "    by %s, posted by %s on %s  [%s]\n",
			s.Author, s.Username, s.CreatedAt.Format("2006-01-02"), s.StoryID)
	}
}
