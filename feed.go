package feedrank

import (
	"context"
	"time"

	feeduc "github.com/loomboard/feedrank/internal/usecase/feed"
)

// FeedService pages ranked posts with exactly-once delivery per
// (session, selection) context.
type FeedService struct {
	svc *feeduc.Service
}

// NextPage returns the next batch of entries for the selection. login may be
// empty for anonymous viewers, who get purely static ranking and no visit
// tracking. A page shorter than pageSize means the context is exhausted until
// new posts arrive.
func (s *FeedService) NextPage(ctx context.Context, sel Selection, sessionID, login string, pageSize int) ([]FeedEntry, error) {
	entries, err := s.svc.NextPage(ctx, sel.toDomain(), sessionID, login, pageSize, time.Now())
	if err != nil {
		return nil, err
	}
	out := make([]FeedEntry, len(entries))
	for i, e := range entries {
		out[i] = entryFromDomain(e)
	}
	return out, nil
}

// ClearContext forgets the session's delivered posts for the selection. Call
// when the host application switches feed context.
func (s *FeedService) ClearContext(ctx context.Context, sessionID string, sel Selection) error {
	return s.svc.ClearContext(ctx, sessionID, sel.toDomain())
}
