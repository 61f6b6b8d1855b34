// matochmat.go contains the http client and document loading, it does not
// contain any parsing logic, which lives in parse.go and works on any document
// regardless of where it came from.

package matochmat

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"lunchwatch/lib/restyutil"
	"lunchwatch/lib/telemetry"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Client struct {
	TargetUrl *url.URL
	Http      *resty.Client
}

type ClientOptions struct {
	TargetUrl string
	// UserAgent and TimeoutSeconds fall back to a desktop browser string and
	// 30 seconds when zero.
	UserAgent          string
	TimeoutSeconds     int
	InsecureSkipVerify bool
}

func NewClient(opts ClientOptions) (*Client, error) {
	targetUrl, err := url.Parse(opts.TargetUrl)
	if err != nil {
		return nil, fmt.Errorf("parse target url: %w", err)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.InsecureSkipVerify {
		// must happen before the bypass below replaces the transport, resty
		// can only reconfigure its own *http.Transport
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(targetUrl.Hostname()))
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "lunchwatch.internal.scrapers.matochmat.http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	c := &Client{
		TargetUrl: targetUrl,
		Http:      client,
	}
	return c, nil
}

// FetchDocument downloads the menu page and parses it into a document.
func (c *Client) FetchDocument(ctx context.Context) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDocument")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.TargetUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch menu page")
		return nil, fmt.Errorf("fetch menu page: %w", err)
	}
	if res.StatusCode() != 200 {
		err := fmt.Errorf("fetch menu page: unexpected status %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, fmt.Errorf("parse menu page: %w", err)
	}
	return doc, nil
}

// LoadDocument parses a saved copy of the menu page, which keeps the rest of
// the pipeline usable without network access.
func LoadDocument(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open local page: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse local page: %w", err)
	}
	return doc, nil
}
