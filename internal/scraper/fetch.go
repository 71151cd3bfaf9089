package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/matchcenter/yallakora-scraper/internal/config"
	"github.com/matchcenter/yallakora-scraper/internal/logger"
	"github.com/matchcenter/yallakora-scraper/internal/match"
)

// ErrFetch wraps every failure to obtain the match-center page
var ErrFetch = errors.New("fetch failed")

// Fetcher handles fetching the match-center page for a date
type Fetcher struct {
	client  *resty.Client
	url     string
	log     *logger.Logger
	metrics *logger.Metrics
}

// NewFetcher creates a Fetcher from the base URL, user agent and timeout in cfg.
// Requests are never retried.
func NewFetcher(cfg config.Config, log *logger.Logger, metrics *logger.Metrics) *Fetcher {
	client := resty.New()
	client.SetTimeout(cfg.Timeout())
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetRetryCount(0)
	if cfg.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Fetcher{
		client:  client,
		url:     cfg.BaseURL,
		log:     log,
		metrics: metrics,
	}
}

// RequestURL returns the page address for a date. The date value is left unescaped
// ("?date=9/29/2025"), which is the form the site links to itself.
func (f *Fetcher) RequestURL(date match.Date) string {
	return fmt.Sprintf("%s?date=%s", f.url, date.URLForm())
}

// Fetch downloads and parses the match-center page for date
func (f *Fetcher) Fetch(ctx context.Context, date match.Date) (*goquery.Document, error) {
	url := f.RequestURL(date)
	f.log.Info("Fetching match center", logger.Fields{"url": url})

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		Get(url)
	f.metrics.RecordTiming("fetch", time.Since(start))
	if err != nil {
		f.log.Error("Error fetching page", logger.Fields{"url": url}, err)
		return nil, fmt.Errorf("%w: fetching page: %w", ErrFetch, err)
	}

	if !resp.IsSuccess() {
		err := fmt.Errorf("%w: unexpected status code: %d", ErrFetch, resp.StatusCode())
		f.log.Error("Error fetching page", logger.Fields{"url": url, "status": resp.StatusCode()}, err)
		return nil, err
	}

	f.log.Debug("Fetched match center", logger.Fields{
		"status": resp.StatusCode(),
		"bytes":  len(resp.Body()),
	})

	doc, err := ParseDocument(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return doc, nil
}

// ParseDocument parses HTML markup into a goquery document
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
