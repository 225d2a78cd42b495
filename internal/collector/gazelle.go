package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"iter"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/qepting91/collage-tracker/internal/domain"
	"golang.org/x/time/rate"
)

var browserHeaders = map[string]string{
	"Connection":      "keep-alive",
	"Cache-Control":   "max-age=0",
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_7_3) AppleWebKit/535.11 (KHTML, like Gecko) Chrome/17.0.963.79 Safari/535.11",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.8",
	"Accept-Charset":  "ISO-8859-1,utf-8;q=0.7,*;q=0.3",
}

type GazelleOptions struct {
	// Host is a bare hostname (https is assumed) or a full base URL.
	Host string
	// MaxPages caps bookmark pagination. Zero means no cap.
	MaxPages int
	// PageInterval spaces listing requests.
	PageInterval time.Duration
	Timeout      time.Duration
}

// GazelleClient is a logged-in session against a Gazelle tracker. Cookies
// live in the client, so one value must be used for the whole run.
type GazelleClient struct {
	http     *resty.Client
	base     *url.URL
	limiter  *rate.Limiter
	maxPages int
}

func NewGazelleClient(opts GazelleOptions) (*GazelleClient, error) {
	host := opts.Host
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse host %q: %w", opts.Host, err)
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(base.String(), "/"))
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeaders(browserHeaders)
	client.SetTimeout(opts.Timeout)

	limit := rate.Inf
	if opts.PageInterval > 0 {
		limit = rate.Every(opts.PageInterval)
	}

	return &GazelleClient{
		http:     client,
		base:     base,
		limiter:  rate.NewLimiter(limit, 1),
		maxPages: opts.MaxPages,
	}, nil
}

// Authenticate posts the login form. The site answers 200 only once the
// session is logged in.
func (gc *GazelleClient) Authenticate(ctx context.Context, creds domain.Credentials) (bool, error) {
	res, err := gc.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": creds.Username,
			"password": creds.Password,
		}).
		Post("/login.php")
	if err != nil {
		return false, fmt.Errorf("login request: %w", err)
	}
	return res.StatusCode() == http.StatusOK, nil
}

// ListCollections walks the bookmarked collages pages. Pagination ends at
// the last page, at MaxPages, or at the first failed request; failures are
// logged and the collages seen so far stand as the listing.
func (gc *GazelleClient) ListCollections(ctx context.Context) iter.Seq[*domain.Collage] {
	return func(yield func(*domain.Collage) bool) {
		for page := 1; gc.maxPages <= 0 || page <= gc.maxPages; page++ {
			if err := gc.limiter.Wait(ctx); err != nil {
				slog.Warn("collage listing interrupted", "page", page, "err", err)
				return
			}

			res, err := gc.http.R().
				SetContext(ctx).
				SetQueryParams(map[string]string{
					"type": "collages",
					"page": strconv.Itoa(page),
				}).
				Get("/bookmarks.php")
			if err != nil {
				slog.Warn("collage listing stopped", "page", page, "err", err)
				return
			}
			if !res.IsSuccess() {
				slog.Warn("collage listing stopped", "page", page, "status", res.StatusCode())
				return
			}

			collages, hasNext, err := parseBookmarks(bytes.NewReader(res.Body()))
			if err != nil {
				slog.Warn("collage listing stopped", "page", page, "err", err)
				return
			}
			slog.Debug("parsed bookmarks page", "page", page, "collages", len(collages), "next", hasNext)

			for _, c := range collages {
				if !yield(c) {
					return
				}
			}
			if !hasNext {
				return
			}
		}
		slog.Warn("collage listing hit page limit", "max_pages", gc.maxPages)
	}
}

type collageResponse struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	Response struct {
		TorrentGroups []torrentGroup `json:"torrentgroups"`
	} `json:"response"`
}

type torrentGroup struct {
	ID        looseString `json:"id"`
	Name      string      `json:"name"`
	Year      looseString `json:"year"`
	MusicInfo *struct {
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
	} `json:"musicInfo"`
}

// looseString accepts a JSON string or number; the API is not consistent
// about which one it sends for ids and years.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n)
	return nil
}

// FetchCollectionDetail loads the torrent groups of one collage from the
// JSON API.
func (gc *GazelleClient) FetchCollectionDetail(ctx context.Context, id string) (domain.Detail, error) {
	res, err := gc.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action": "collage",
			"id":     id,
		}).
		Get("/ajax.php")
	if err != nil {
		return domain.Detail{}, &domain.DetailFetchError{ID: id, Err: err}
	}
	if !res.IsSuccess() {
		return domain.Detail{}, &domain.DetailFetchError{ID: id, Status: res.StatusCode()}
	}

	var payload collageResponse
	if err := json.Unmarshal(res.Body(), &payload); err != nil {
		return domain.Detail{}, &domain.DetailFetchError{ID: id, Reason: "decode response", Err: err}
	}
	if payload.Status != "success" {
		reason := fmt.Sprintf("api status %q", payload.Status)
		if payload.Error != "" {
			reason += ": " + payload.Error
		}
		return domain.Detail{}, &domain.DetailFetchError{ID: id, Reason: reason}
	}

	detail := domain.Detail{
		CollageID: id,
		Torrents:  make([]domain.Torrent, 0, len(payload.Response.TorrentGroups)),
	}
	for _, g := range payload.Response.TorrentGroups {
		year, _ := strconv.Atoi(string(g.Year))
		t := domain.Torrent{
			ID:   string(g.ID),
			Name: html.UnescapeString(g.Name),
			Year: year,
		}
		if g.MusicInfo != nil {
			for _, a := range g.MusicInfo.Artists {
				t.MusicInfo.Artists = append(t.MusicInfo.Artists, domain.Artist{Name: html.UnescapeString(a.Name)})
			}
		}
		detail.Torrents = append(detail.Torrents, t)
	}
	return detail, nil
}

// URL resolves a site-relative path against the tracker host.
func (gc *GazelleClient) URL(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	return gc.base.ResolveReference(ref).String()
}
