package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://translate.googleapis.com"
	defaultTimeout = 30 * time.Second
)

// Client is a stateless adapter for the Google translate web endpoint.
// The endpoint answers with positional JSON arrays: element 0 holds the
// translated segments, each segment's element 0 the translated text.
type Client struct {
	http *resty.Client
}

func NewClient() *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(defaultTimeout),
	}
}

// SetBaseURL points the client at a different endpoint, used by tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

// Translate converts text into the target language code, detecting the
// source language. Any transport error or non-2xx status is a failure.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     "auto",
			"tl":     target,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		return "", fmt.Errorf("request translation: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("translation provider returned %s", resp.Status())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("translation provider returned malformed payload")
	}

	segments := gjson.GetBytes(body, "0.#.0")
	var b strings.Builder
	for _, segment := range segments.Array() {
		b.WriteString(segment.String())
	}
	return b.String(), nil
}
