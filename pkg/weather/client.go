package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "http://api.openweathermap.org"

// Report is the slice of the provider response the bot consumes. It is
// built per request and discarded after the reply is sent.
type Report struct {
	Temperature float64
	Description string
}

type currentWeatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Client is a stateless adapter for the OpenWeatherMap current-weather
// endpoint. Metric units, no caching, no retries.
type Client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(timeout),
		apiKey: apiKey,
	}
}

// SetBaseURL points the client at a different endpoint, used by tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

// CurrentByCity fetches the current weather for the named city. Any
// transport error or non-2xx status is a failure.
func (c *Client) CurrentByCity(ctx context.Context, city string) (Report, error) {
	var payload currentWeatherResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": c.apiKey,
			"units": "metric",
		}).
		SetResult(&payload).
		Get("/data/2.5/weather")
	if err != nil {
		return Report{}, fmt.Errorf("fetch weather for %q: %w", city, err)
	}
	if resp.IsError() {
		return Report{}, fmt.Errorf("weather provider returned %s for %q", resp.Status(), city)
	}
	if len(payload.Weather) == 0 {
		return Report{}, fmt.Errorf("weather provider response for %q has no conditions", city)
	}

	return Report{
		Temperature: payload.Main.Temp,
		Description: payload.Weather[0].Description,
	}, nil
}
