package api

import (
	"context"
	"fmt"
	"net/http"

	"hackorsnooze/internal/domain"
)

// ListStories fetches the public listing, newest first as the server orders it.
func (c *Client) ListStories(ctx context.Context) ([]domain.StoryRecord, error) {
	var out storiesEnvelope
	err := c.do(ctx, call{op: "list_stories", method: http.MethodGet, path: "/stories", out: &out})
	if err != nil {
		return nil, err
	}
	if out.Stories == nil {
		return nil, fmt.Errorf("%w: list_stories: missing stories", domain.ErrMalformedRecord)
	}
	return out.Stories, nil
}

func (c *Client) CreateStory(ctx context.Context, token string, draft domain.Draft) (domain.StoryRecord, error) {
	var out storyEnvelope
	err := c.do(ctx, call{
		op:     "create_story",
		method: http.MethodPost,
		path:   "/stories",
		in:     storyBody{Token: token, Story: draft},
		out:    &out,
	})
	if err != nil {
		return domain.StoryRecord{}, err
	}
	return storyOf("create_story", out)
}

func (c *Client) UpdateStory(ctx context.Context, token, storyID string, patch domain.StoryPatch) (domain.StoryRecord, error) {
	var out storyEnvelope
	err := c.do(ctx, call{
		op:     "update_story",
		method: http.MethodPatch,
		path:   storyPath(storyID),
		in:     storyBody{Token: token, Story: patch},
		out:    &out,
	})
	if err != nil {
		return domain.StoryRecord{}, err
	}
	return storyOf("update_story", out)
}

func (c *Client) DeleteStory(ctx context.Context, token, storyID string) error {
	return c.do(ctx, call{
		op:     "delete_story",
		method: http.MethodDelete,
		path:   storyPath(storyID),
		in:     tokenBody{Token: token},
	})
}

func storyOf(op string, env storyEnvelope) (domain.StoryRecord, error) {
	if env.Story == nil {
		return domain.StoryRecord{}, fmt.Errorf("%w: %s: missing story", domain.ErrMalformedRecord, op)
	}
	return *env.Story, nil
}
