package feeds

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mmcdole/gofeed"

	"newslens/internal/dto"
)

// Some outlets throttle default library user agents, so fetches rotate
// through a small set of browser strings.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// RSSParser fetches RSS and Atom feeds.
type RSSParser struct {
	parser  *gofeed.Parser
	timeout time.Duration
	counter atomic.Uint64
}

// NewRSSParser creates an RSS/Atom feed parser.
func NewRSSParser() *RSSParser {
	return &RSSParser{
		parser:  gofeed.NewParser(),
		timeout: 30 * time.Second,
	}
}

// FetchFeed downloads and parses the feed at url.
func (p *RSSParser) FetchFeed(ctx context.Context, url string) ([]dto.RawEntry, error) {
	p.parser.UserAgent = userAgents[p.counter.Add(1)%uint64(len(userAgents))]

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	feed, err := p.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}

	entries := make([]dto.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		published := item.Published
		if published == "" && item.PublishedParsed != nil {
			published = item.PublishedParsed.Format(time.RFC1123Z)
		}
		entries = append(entries, dto.RawEntry{
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			Published:   published,
			Categories:  item.Categories,
		})
	}
	return entries, nil
}
