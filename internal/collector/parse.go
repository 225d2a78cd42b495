package collector

import (
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/qepting91/collage-tracker/internal/domain"
)

var nonDigits = regexp.MustCompile(`[^\d]`)

// parseBookmarks reads one bookmarks.php?type=collages page. Rows are
// category, name, torrent count, subscribers, last updated.
func parseBookmarks(r io.Reader) ([]*domain.Collage, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, false, err
	}

	var collages []*domain.Collage
	doc.Find("table.collage_table tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("colhead") {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}
		link := cells.Eq(1).Find(`a[href*="collages.php?id="]`).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		id := collageID(href)
		if id == "" {
			return
		}

		collages = append(collages, &domain.Collage{
			ID:          id,
			Name:        strings.TrimSpace(link.Text()),
			URL:         href,
			Category:    strings.TrimSpace(cells.Eq(0).Text()),
			NumTorrents: toNumber(cells.Eq(2).Text()),
			Subscribers: toNumber(cells.Eq(3).Text()),
			Updated:     updatedMarker(cells.Eq(4)),
		})
	})

	hasNext := doc.Find(".linkbox a.pager_next").Length() > 0
	return collages, hasNext, nil
}

func collageID(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}

// updatedMarker prefers the absolute time in the tooltip over the relative
// "3 days ago" text, which changes on every run.
func updatedMarker(cell *goquery.Selection) string {
	if title, ok := cell.Find("span.time").Attr("title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(cell.Text())
}

func toNumber(s string) int {
	n, err := strconv.Atoi(nonDigits.ReplaceAllString(s, ""))
	if err != nil {
		return 0
	}
	return n
}
