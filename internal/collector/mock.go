package collector

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/qepting91/collage-tracker/internal/domain"
)

// MockClient implements domain.Source with generated collages. Odd
// collages get today's date as their updated marker, so consecutive days
// show modifications.
type MockClient struct {
	Collages int
	Latency  time.Duration
	now      func() time.Time
}

func NewMockClient() *MockClient {
	return &MockClient{Collages: 6, Latency: 200 * time.Millisecond, now: time.Now}
}

func (mc *MockClient) Authenticate(ctx context.Context, creds domain.Credentials) (bool, error) {
	return creds.Username != "", nil
}

func (mc *MockClient) ListCollections(ctx context.Context) iter.Seq[*domain.Collage] {
	return func(yield func(*domain.Collage) bool) {
		today := mc.clock().Format("Jan 02 2006")
		for i := 1; i <= mc.Collages; i++ {
			updated := "Jan 01 2024"
			if i%2 == 1 {
				updated = today
			}
			c := &domain.Collage{
				ID:          fmt.Sprint(i),
				Name:        fmt.Sprintf("Simulated collage #%d", i),
				URL:         fmt.Sprintf("collages.php?id=%d", i),
				Category:    "Theme",
				Updated:     updated,
				NumTorrents: 3,
				Subscribers: i * 10,
			}
			if !yield(c) {
				return
			}
		}
	}
}

func (mc *MockClient) FetchCollectionDetail(ctx context.Context, id string) (domain.Detail, error) {
	// Simulate network latency
	select {
	case <-ctx.Done():
		return domain.Detail{}, ctx.Err()
	case <-time.After(mc.Latency):
	}

	detail := domain.Detail{CollageID: id}
	for i := 1; i <= 3; i++ {
		detail.Torrents = append(detail.Torrents, domain.Torrent{
			ID:        fmt.Sprintf("%s%02d", id, i),
			Name:      fmt.Sprintf("Simulated release %d", i),
			Year:      2000 + i,
			MusicInfo: domain.MusicInfo{Artists: []domain.Artist{{Name: "simulated_artist"}}},
		})
	}
	return detail, nil
}

func (mc *MockClient) URL(path string) string {
	return "http://localhost/" + path
}

func (mc *MockClient) clock() time.Time {
	if mc.now == nil {
		return time.Now()
	}
	return mc.now()
}
