package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
)

// Credentials for the remote site login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate reports the first missing field as a ConfigError.
func (c Credentials) Validate() error {
	if c.Username == "" {
		return &ConfigError{Field: "username", Reason: "is required"}
	}
	if c.Password == "" {
		return &ConfigError{Field: "password", Reason: "is required"}
	}
	return nil
}

// Artist credited on a torrent group.
type Artist struct {
	Name string `json:"name"`
}

type MusicInfo struct {
	Artists []Artist `json:"artists"`
}

// Torrent is a single release listed inside a collage.
// Fields are declared in key order so encoded objects come out sorted.
type Torrent struct {
	ID        string    `json:"id"`
	MusicInfo MusicInfo `json:"musicInfo"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
}

func (t Torrent) Key() string { return t.ID }

func (t Torrent) Field(name string) (any, bool) {
	switch name {
	case "id":
		return t.ID, true
	case "name":
		return t.Name, true
	case "year":
		return t.Year, true
	case "artists":
		return t.MusicInfo.Artists, true
	case "musicInfo":
		return t.MusicInfo, true
	}
	return nil, false
}

// Collage is one bookmarked collection as listed by the site.
//
// Keys the model does not know about are kept in Extra and written back
// unchanged, so older or newer snapshot files survive a load/save cycle.
type Collage struct {
	ID          string
	Name        string
	URL         string
	Category    string
	Updated     string
	NumTorrents int
	Subscribers int
	// Torrents stays nil until the collage is enriched.
	Torrents []Torrent

	Extra map[string]json.RawMessage
}

const (
	keyCategory    = "category"
	keyID          = "id"
	keyName        = "name"
	keyNumTorrents = "num_torrents"
	keySubscribers = "subscribers"
	keyTorrents    = "torrents"
	keyUpdated     = "updated"
	keyURL         = "url"
)

func (c *Collage) Key() string { return c.ID }

// Field looks a value up by its snapshot key. Unknown keys fall back to Extra.
func (c *Collage) Field(name string) (any, bool) {
	switch name {
	case keyID:
		return c.ID, true
	case keyName:
		return c.Name, true
	case keyURL:
		return c.URL, true
	case keyCategory:
		return c.Category, true
	case keyUpdated:
		return c.Updated, true
	case keyNumTorrents:
		return c.NumTorrents, true
	case keySubscribers:
		return c.Subscribers, true
	case keyTorrents:
		return c.Torrents, true
	}
	raw, ok := c.Extra[name]
	if !ok {
		return nil, false
	}
	return string(raw), true
}

// MarshalJSON encodes through a map so keys, including Extra, are sorted.
func (c *Collage) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+8)
	for k, v := range c.Extra {
		m[k] = v
	}
	m[keyID] = c.ID
	m[keyName] = c.Name
	m[keyURL] = c.URL
	m[keyCategory] = c.Category
	m[keyUpdated] = c.Updated
	m[keyNumTorrents] = c.NumTorrents
	m[keySubscribers] = c.Subscribers
	if c.Torrents != nil {
		m[keyTorrents] = c.Torrents
	}
	return json.Marshal(m)
}

func (c *Collage) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*c = Collage{}

	targets := map[string]any{
		keyID:          &c.ID,
		keyName:        &c.Name,
		keyURL:         &c.URL,
		keyCategory:    &c.Category,
		keyUpdated:     &c.Updated,
		keyNumTorrents: &c.NumTorrents,
		keySubscribers: &c.Subscribers,
		keyTorrents:    &c.Torrents,
	}
	for key, dst := range targets {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		delete(fields, key)
	}
	if len(fields) > 0 {
		c.Extra = fields
	}
	return nil
}

// Detail is the nested item list fetched for one collage.
type Detail struct {
	CollageID string
	Torrents  []Torrent
}

// Source defines the remote catalog the tracker watches.
type Source interface {
	Authenticate(ctx context.Context, creds Credentials) (bool, error)
	// ListCollections yields the bookmarked collages page by page. The
	// sequence is finite and cannot be restarted.
	ListCollections(ctx context.Context) iter.Seq[*Collage]
	FetchCollectionDetail(ctx context.Context, id string) (Detail, error)
	// URL resolves a site-relative link.
	URL(path string) string
}
