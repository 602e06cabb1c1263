package upstream

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// FetchError reports a failed page request: transport failure, a non-2xx
// status, or an undecodable body. Pagination treats it as the end of data
// for the affected timeframe.
type FetchError struct {
	Timeframe  string
	Page       int
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream fetch failed for timeframe %s page %d: status %d", e.Timeframe, e.Page, e.StatusCode)
	}
	return fmt.Sprintf("upstream fetch failed for timeframe %s page %d: %v", e.Timeframe, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches leaderboard pages from the upstream API.
type Client struct {
	baseURL string
	client  *resty.Client
}

// NewClient creates an upstream client with a bounded per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "zama-rank-checker/1.0"),
	}
}

// FetchPage retrieves one leaderboard page and decodes it with field order
// preserved. The context carries request cancellation so a disconnected
// caller stops in-flight pagination.
func (c *Client) FetchPage(ctx context.Context, timeframeKey string, page int) (any, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"timeframe": timeframeKey,
			"sortBy":    "mindshare",
			"page":      strconv.Itoa(page),
		}).
		Get(c.baseURL)

	if err != nil {
		return nil, &FetchError{Timeframe: timeframeKey, Page: page, Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &FetchError{Timeframe: timeframeKey, Page: page, StatusCode: resp.StatusCode()}
	}

	v, err := Decode(resp.Body())
	if err != nil {
		logrus.Debugf("Undecodable body for timeframe %s page %d: %v", timeframeKey, page, err)
		return nil, &FetchError{Timeframe: timeframeKey, Page: page, Err: err}
	}

	return v, nil
}
