package catalog

import (
	"context"
	"fmt"

	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/logger"
)

// Service builds StoryLists from the remote story service.
type Service struct {
	stories domain.StoryService
	log     logger.Logger
}

// New constructs a catalog Service.
func New(stories domain.StoryService, log logger.Logger) *Service {
	return &Service{stories: stories, log: logger.OrNop(log)}
}

// FetchAll lists every story and wraps them, in server order, as a new
// StoryList. A single malformed record fails the whole fetch.
func (s *Service) FetchAll(ctx context.Context) (*StoryList, error) {
	recs, err := s.stories.ListStories(ctx)
	if err != nil {
		return nil, err
	}
	stories, err := domain.StoriesFromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("fetch stories: %w", err)
	}
	s.log.Debug("catalog fetched", logger.Int("stories", len(stories)))
	return &StoryList{stories: stories, remote: s.stories, log: s.log}, nil
}

// Empty returns a StoryList with no stories, for use before the first fetch.
func (s *Service) Empty() *StoryList {
	return &StoryList{stories: domain.Stories{}, remote: s.stories, log: s.log}
}

// StoryList is the catalog. It is not safe for concurrent mutation; callers
// serialize user actions.
type StoryList struct {
	stories domain.Stories
	remote  domain.StoryService
	log     logger.Logger
}

// Stories returns a copy of the catalog, newest first.
func (l *StoryList) Stories() domain.Stories { return l.stories.Clone() }

func (l *StoryList) Len() int { return len(l.stories) }

// Get looks a story up by id.
func (l *StoryList) Get(id string) (domain.Story, bool) { return l.stories.Find(id) }

// Apply reconciles one change into the catalog.
func (l *StoryList) Apply(c domain.Change) { l.stories = l.stories.Apply(c) }

// Submit creates a story as the holder of tok and puts it at the front of the
// list. It does not register the story anywhere else; the caller adds it to
// the session's own stories.
func (l *StoryList) Submit(ctx context.Context, tok domain.TokenSource, draft domain.Draft) (domain.Story, error) {
	token := tokenOf(tok)
	if token == "" {
		return domain.Story{}, fmt.Errorf("submit story: %w", domain.ErrUnauthenticated)
	}
	if err := draft.Validate(); err != nil {
		return domain.Story{}, err
	}

	rec, err := l.remote.CreateStory(ctx, token, draft)
	if err != nil {
		return domain.Story{}, err
	}
	st, err := domain.NewStory(rec)
	if err != nil {
		return domain.Story{}, err
	}

	l.stories = l.stories.Prepended(st)
	l.log.Info("story submitted", logger.StoryID(st.StoryID), logger.Username(st.Username))
	return st, nil
}

func tokenOf(tok domain.TokenSource) string {
	if tok == nil {
		return ""
	}
	return tok.Token()
}
