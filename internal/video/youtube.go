// Package video finds a tutorial video for a course chapter.
package video

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTube searches the YouTube Data API and returns the first video hit.
type YouTube struct {
	svc *youtube.Service
}

// NewYouTube builds a search client for apiKey. Extra options are appended
// after the key, which lets tests point the client at a local endpoint.
func NewYouTube(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("youtube api key is required")
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, errors.Wrap(err, "create youtube service")
	}
	return &YouTube{svc: svc}, nil
}

// FirstVideoID returns the id of the top video result for query, or "" when
// the search has no video hits.
func (y *YouTube) FirstVideoID(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	resp, err := y.svc.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", errors.Wrapf(err, "youtube search %q", query)
	}
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			return item.Id.VideoId, nil
		}
	}
	return "", nil
}
