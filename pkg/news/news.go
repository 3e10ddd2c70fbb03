package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	utils "Coinpulse/utilities"

	"golang.org/x/sync/errgroup"
)

// Article is one news item, normalized across RSS 2.0 and Atom feeds.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Published   string `json:"published"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Fetcher pulls articles from a set of named feeds. Feeds are independent,
// so they are fetched concurrently and merged by publish time afterward; a
// dead feed just contributes nothing.
type Fetcher struct {
	feeds      map[string]string
	httpClient *http.Client
	logger     *utils.Logger
}

// xmlFeed covers both formats in one decode: RSS 2.0 puts items under
// <channel>, Atom puts entries at the root.
type xmlFeed struct {
	Channel *struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	Entries []atomEntry `xml:"entry"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

type atomEntry struct {
	Title string `xml:"title"`
	Link  struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
	Published string `xml:"published"`
	Updated   string `xml:"updated"`
	Summary   string `xml:"summary"`
}

func NewFetcher(cfg utils.NewsConfig, logger *utils.Logger) *Fetcher {
	timeout := 10
	if cfg.RequestTimeoutSec > 0 {
		timeout = cfg.RequestTimeoutSec
	}
	return &Fetcher{
		feeds:      cfg.Feeds,
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger:     logger,
	}
}

// Sources lists the configured feed names.
func (f *Fetcher) Sources() []string {
	names := make([]string, 0, len(f.feeds))
	for name := range f.feeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasSource reports whether name is a configured feed.
func (f *Fetcher) HasSource(name string) bool {
	_, ok := f.feeds[name]
	return ok
}

// Fetch collects up to perFeedLimit articles from each configured feed, or
// from the single named source when source is non-empty. Articles are
// merged newest first; per-feed failures are logged and swallowed.
func (f *Fetcher) Fetch(ctx context.Context, source string, perFeedLimit int) []Article {
	targets := make(map[string]string, len(f.feeds))
	if source != "" {
		if url, ok := f.feeds[source]; ok {
			targets[source] = url
		}
	} else {
		for name, url := range f.feeds {
			targets[name] = url
		}
	}

	var (
		mu       sync.Mutex
		articles []Article
	)
	g, gctx := errgroup.WithContext(ctx)
	for name, url := range targets {
		name, url := name, url
		g.Go(func() error {
			items, err := f.fetchFeed(gctx, url, name, perFeedLimit)
			if err != nil {
				f.logger.LogWarn("News: feed %q failed: %v", name, err)
				return nil // failures never sink the whole request
			}
			mu.Lock()
			articles = append(articles, items...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(articles, func(i, j int) bool {
		return parsePublished(articles[i].Published).After(parsePublished(articles[j].Published))
	})
	return articles
}

func (f *Fetcher) fetchFeed(ctx context.Context, feedURL, source string, limit int) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Coinpulse/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var feed xmlFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var articles []Article
	if feed.Channel != nil {
		for _, item := range feed.Channel.Items {
			if len(articles) >= limit {
				break
			}
			articles = append(articles, Article{
				Title:       item.Title,
				URL:         item.Link,
				Published:   item.PubDate,
				Description: utils.TruncateString(item.Description, 200),
				Source:      source,
			})
		}
	}
	for _, entry := range feed.Entries {
		if len(articles) >= limit {
			break
		}
		published := entry.Published
		if published == "" {
			published = entry.Updated
		}
		articles = append(articles, Article{
			Title:       entry.Title,
			URL:         entry.Link.Href,
			Published:   published,
			Description: utils.TruncateString(entry.Summary, 200),
			Source:      source,
		})
	}
	return articles, nil
}

// parsePublished makes a best effort at the date formats feeds actually use.
// Unparseable dates sort last.
func parsePublished(s string) time.Time {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
