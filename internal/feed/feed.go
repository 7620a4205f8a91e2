// Package feed renders the stored mention list as an RSS 2.0 document
// with an atom:link self reference.
package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"mentions-feed/internal/types"
)

const titleLimit = 80

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	AtomNS  string   `xml:"xmlns:atom,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string   `xml:"title"`
	Link          string   `xml:"link"`
	Description   string   `xml:"description"`
	Language      string   `xml:"language"`
	LastBuildDate string   `xml:"lastBuildDate"`
	AtomLink      atomLink `xml:"atom:link"`
	Items         []item   `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description cdata  `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        guid   `xml:"guid"`
	Author      string `xml:"author"`
}

// cdata wraps the full mention text in a literal-data section so embedded
// markup and entities stay readable in the feed.
type cdata struct {
	Text string `xml:",cdata"`
}

type guid struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// Renderer carries the channel-level metadata for the feed.
type Renderer struct {
	Title       string
	SiteLink    string
	SelfURL     string
	Description string
}

// Render serializes mentions (assumed newest-first) into an RSS document.
func (r *Renderer) Render(mentions []types.Mention, now time.Time) ([]byte, error) {
	items := make([]item, 0, len(mentions))
	for _, m := range mentions {
		items = append(items, item{
			Title:       itemTitle(m.Text),
			Link:        m.TweetURL,
			Description: cdata{Text: m.Text},
			PubDate:     pubDate(m.CreatedAt),
			GUID:        guid{Value: m.TweetURL, IsPermaLink: true},
			Author:      fmt.Sprintf("@%s (%s)", m.AuthorUsername, m.AuthorName),
		})
	}

	doc := rss{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: channel{
			Title:         r.Title,
			Link:          r.SiteLink,
			Description:   r.Description,
			Language:      "en",
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			AtomLink: atomLink{
				Href: r.SelfURL,
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: items,
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// itemTitle returns a bounded prefix of the mention text on a single line,
// with an ellipsis when truncated.
func itemTitle(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			runes[i] = ' '
		}
	}
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "…"
	}
	return string(runes)
}

// pubDate converts the source-reported RFC3339 timestamp into the RFC1123Z
// form RSS expects; unparsable values pass through unchanged.
func pubDate(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.UTC().Format(time.RFC1123Z)
}
