package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/piwi3910/SlabQuote/internal/model"
)

// DefaultFrankfurterURL is the public Frankfurter API. No key is required.
const DefaultFrankfurterURL = "https://api.frankfurter.app"

// Frankfurter fetches ECB reference rates from a Frankfurter API instance.
type Frankfurter struct {
	BaseURL string
	HTTP    *http.Client
}

// NewFrankfurter returns a client for baseURL; empty means the public API.
func NewFrankfurter(baseURL string, timeout time.Duration) *Frankfurter {
	if baseURL == "" {
		baseURL = DefaultFrankfurterURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Frankfurter{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

type latestResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

func (f *Frankfurter) FetchRate(ctx context.Context, from, to model.Currency) (float64, error) {
	if from == to {
		return 1, nil
	}
	values := url.Values{}
	values.Set("from", string(from))
	values.Set("to", string(to))

	urlStr := strings.TrimRight(f.BaseURL, "/") + "/latest?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching %s/%s rate: %w", from, to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return 0, fmt.Errorf("frankfurter status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decoding rate response: %w", err)
	}
	rate, ok := out.Rates[string(to)]
	if !ok {
		return 0, fmt.Errorf("response has no %s rate", to)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("invalid %s/%s rate %g", from, to, rate)
	}
	return rate, nil
}
