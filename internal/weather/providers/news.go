package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
)

var newsNamespace = uuid.MustParse("0b6f2c55-3c1e-4a51-a1f4-6a8d3e2b7c90")

// FeedNewsProvider reads weather news from RSS or Atom feeds.
type FeedNewsProvider struct {
	feeds   []string
	limit   int
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewFeedNewsProvider creates a provider for the given feed URLs. A limit <= 0
// returns every item.
func NewFeedNewsProvider(client *http.Client, feeds []string, limit int) *FeedNewsProvider {
	return &FeedNewsProvider{
		feeds:   feeds,
		limit:   limit,
		httpCfg: newHTTPConfig(client),
		circuit: newCircuitBreaker("news"),
	}
}

// FetchNews fetches all feeds and returns their items newest first. Feeds that fail
// are skipped as long as at least one succeeds.
func (p *FeedNewsProvider) FetchNews(ctx context.Context) ([]weather.NewsArticle, error) {
	var (
		articles []weather.NewsArticle
		errs     []error
	)
	for _, feedURL := range p.feeds {
		items, err := p.fetchFeed(ctx, feedURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", feedURL, err))
			continue
		}
		articles = append(articles, items...)
	}
	if len(articles) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if p.limit > 0 && len(articles) > p.limit {
		articles = articles[:p.limit]
	}
	return articles, nil
}

func (p *FeedNewsProvider) fetchFeed(ctx context.Context, feedURL string) ([]weather.NewsArticle, error) {
	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	out := make([]weather.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		out = append(out, articleFromItem(feed.Title, item))
	}
	return out, nil
}

func articleFromItem(source string, item *gofeed.Item) weather.NewsArticle {
	a := weather.NewsArticle{
		Title:   strings.TrimSpace(item.Title),
		Summary: strings.TrimSpace(item.Description),
		Content: item.Content,
		Source:  source,
		URL:     item.Link,
	}

	key := item.GUID
	if key == "" {
		key = item.Link + "|" + item.Title
	}
	a.ID = uuid.NewSHA1(newsNamespace, []byte(key)).String()

	if item.PublishedParsed != nil {
		a.PublishedAt = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		a.PublishedAt = item.UpdatedParsed.UTC()
	}
	if item.Image != nil {
		a.Image = item.Image.URL
	}
	if len(item.Categories) > 0 {
		a.Category = item.Categories[0]
	} else {
		a.Category = guessCategory(a.Title + " " + a.Summary)
	}
	return a
}

// guessCategory buckets uncategorised items into the dashboard's news categories.
func guessCategory(text string) string {
	switch {
	case common.HasAny(text, "warning", "storm", "typhoon", "flood", "heat wave",
		"cảnh báo", "bão", "lũ", "nắng nóng"):
		return "Cảnh báo"
	case common.HasAny(text, "drought", "pollution", "hạn hán", "ô nhiễm", "môi trường"):
		return "Môi trường"
	default:
		return "Dự báo"
	}
}

// StaticNewsProvider serves a fixed set of bulletins, used when no feed is configured.
type StaticNewsProvider struct {
	now func() time.Time
}

func NewStaticNewsProvider() *StaticNewsProvider {
	return &StaticNewsProvider{now: time.Now}
}

// FetchNews returns the built-in bulletins dated relative to the current time.
func (p *StaticNewsProvider) FetchNews(_ context.Context) ([]weather.NewsArticle, error) {
	now := p.now().UTC()
	return []weather.NewsArticle{
		{
			ID:          "news-1",
			Title:       "Bão số 4 đang tiến vào Biển Đông, dự báo ảnh hưởng đến miền Trung",
			Summary:     "Cơn bão mới hình thành trên Biển Đông với sức gió mạnh cấp 8-9, dự báo sẽ ảnh hưởng đến các tỉnh miền Trung trong tuần tới.",
			Content:     "Nội dung chi tiết về cơn bão...",
			Category:    "Cảnh báo",
			PublishedAt: now,
			Source:      "Trung tâm Dự báo Khí tượng",
		},
		{
			ID:          "news-2",
			Title:       "Thời tiết miền Bắc chuyển lạnh, nhiệt độ giảm 5-7 độ C",
			Summary:     "Không khí lạnh tăng cường khiến nhiệt độ miền Bắc giảm mạnh, có nơi dưới 15 độ C.",
			Content:     "Chi tiết về đợt lạnh...",
			Category:    "Dự báo",
			PublishedAt: now.Add(-2 * time.Hour),
			Source:      "VTV",
		},
		{
			ID:          "news-3",
			Title:       "Hạn hán kéo dài ở miền Nam, cần tiết kiệm nước",
			Summary:     "Tình trạng hạn hán kéo dài tại các tỉnh miền Nam, người dân cần sử dụng nước tiết kiệm.",
			Content:     "Thông tin về tình hình hạn hán...",
			Category:    "Môi trường",
			PublishedAt: now.Add(-4 * time.Hour),
			Source:      "Báo Tuổi Trẻ",
		},
	}, nil
}
