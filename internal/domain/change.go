package domain

import "fmt"

// Action is the kind of reconciliation applied to every collection that may
// reference a story.
type Action int

const (
	// Insert puts a newly created story at the front.
	Insert Action = iota + 1
	// Remove drops a deleted story.
	Remove
	// Replace swaps in the edited copy of a story.
	Replace
)

func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Change describes one multi-collection update, keyed by StoryID.
type Change struct {
	Action  Action
	StoryID string
	Story   Story // set for Insert and Replace
}

// InsertChange returns an Insert change for st.
func InsertChange(st Story) Change { return Change{Action: Insert, StoryID: st.StoryID, Story: st} }

// RemoveChange returns a Remove change for id.
func RemoveChange(id string) Change { return Change{Action: Remove, StoryID: id} }

// ReplaceChange returns a Replace change for st.
func ReplaceChange(st Story) Change { return Change{Action: Replace, StoryID: st.StoryID, Story: st} }
