package domain

// Stories is an ordered sequence of stories, unique by StoryID. Methods never
// mutate the receiver; they return a new slice.
type Stories []Story

// StoriesFromRecords builds stories in record order. A later record repeating
// an earlier StoryID is dropped.
func StoriesFromRecords(recs []StoryRecord) (Stories, error) {
	out := make(Stories, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		st, err := NewStory(rec)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[st.StoryID]; dup {
			continue
		}
		seen[st.StoryID] = struct{}{}
		out = append(out, st)
	}
	return out, nil
}

// Find returns the story with id.
func (s Stories) Find(id string) (Story, bool) {
	for _, st := range s {
		if st.StoryID == id {
			return st, true
		}
	}
	return Story{}, false
}

// Contains reports whether a story with id is present.
func (s Stories) Contains(id string) bool {
	_, ok := s.Find(id)
	return ok
}

// IDs returns the story ids in order.
func (s Stories) IDs() []string {
	ids := make([]string, len(s))
	for i, st := range s {
		ids[i] = st.StoryID
	}
	return ids
}

// Without filters out every story with id.
func (s Stories) Without(id string) Stories {
	out := make(Stories, 0, len(s))
	for _, st := range s {
		if st.StoryID != id {
			out = append(out, st)
		}
	}
	return out
}

// Replaced swaps the copy of story.StoryID for story, keeping its position.
// Absent ids leave the sequence unchanged.
func (s Stories) Replaced(story Story) Stories {
	out := make(Stories, len(s))
	for i, st := range s {
		if st.StoryID == story.StoryID {
			st = story
		}
		out[i] = st
	}
	return out
}

// Prepended puts story at the front. If the id is already present the
// existing entry is replaced in place instead, so the sequence stays unique.
func (s Stories) Prepended(story Story) Stories {
	if s.Contains(story.StoryID) {
		return s.Replaced(story)
	}
	out := make(Stories, 0, len(s)+1)
	out = append(out, story)
	return append(out, s...)
}

// Apply returns the sequence after c.
func (s Stories) Apply(c Change) Stories {
	switch c.Action {
	case Insert:
		return s.Prepended(c.Story)
	case Remove:
		return s.Without(c.StoryID)
	case Replace:
		return s.Replaced(c.Story)
	default:
		return s.Clone()
	}
}

// Clone returns an independent copy.
func (s Stories) Clone() Stories {
	if s == nil {
		return Stories{}
	}
	out := make(Stories, len(s))
	copy(out, s)
	return out
}
