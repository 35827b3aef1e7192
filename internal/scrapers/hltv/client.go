// Package hltv extracts match, map, player stat and event records from the
// hltv.org results and event archive pages.
package hltv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hltvminer/internal/components/assert"
	"hltvminer/internal/components/restydump"
	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/conv"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch = "client.fetch"
	report_client_dump  = "client.dump"
)

// ErrFetch is returned when a page could not be retrieved.
var ErrFetch = errors.New("hltv: fetch failed")

const (
	DefaultBaseURL   = "https://www.hltv.org"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

type Options struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds every request, zero disables the bound.
	Timeout    time.Duration
	RetryCount int
	// RequestsPerSecond limits the request rate, zero disables the limit.
	RequestsPerSecond float64
	CloudflareBypass  bool
	// DumpDir, if set, receives the body of every fetched page.
	DumpDir string
}

type Client struct {
	http *resty.Client
	conv conv.Converter
	tel  telemetry.API
}

func NewClient(opts Options, tel telemetry.API) *Client {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("hltv", tel)

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseURL)
	httpClient.SetHeader("user-agent", opts.UserAgent)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.SetRetryCount(opts.RetryCount)
	httpClient.SetRetryWaitTime(time.Second)
	httpClient.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() == http.StatusTooManyRequests ||
			res.StatusCode() >= http.StatusInternalServerError
	})

	if opts.RequestsPerSecond > 0 {
		// max burst >= rps just means that no requests will be dropped
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)

	if opts.DumpDir != "" {
		out, err := restydump.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			tel.ReportWarning(report_client_dump, err, opts.DumpDir)
		} else {
			restydump.Attach(httpClient, out, tel)
		}
	}

	return &Client{
		http: httpClient,
		conv: conv.NewConverter(tel),
		tel:  tel,
	}
}

// fetch retrieves a page relative to the base url and parses it.
func (c *Client) fetch(ctx context.Context, path string, query map[string]string) (*goquery.Document, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	res, err := req.Get(path)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrFetch, path, err)
		c.tel.ReportBroken(report_client_fetch, err)
		return nil, err
	}
	if res.IsError() {
		err = fmt.Errorf("%w: %s: %s", ErrFetch, path, res.Status())
		c.tel.ReportBroken(report_client_fetch, err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		err = fmt.Errorf("parse html %s: %w", path, err)
		c.tel.ReportBroken(report_client_fetch, err)
		return nil, err
	}
	return doc, nil
}
