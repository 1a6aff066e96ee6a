package collector

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// StooqFetcher implements Fetcher using the Stooq daily-history CSV endpoint.
// Useful as an alternate source when Yahoo rate-limits.
type StooqFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Stooq ticker
	Now       func() time.Time
}

// NewStooqFetcher creates a new fetcher with optional proxy support.
func NewStooqFetcher(proxyURL string) *StooqFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &StooqFetcher{
		BaseURL: "https://stooq.com",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^spx",
			"SPX":    "^spx",
			"SP500":  "^spx",
		},
	}
}

func (f *StooqFetcher) Name() string { return "stooq" }

// stooqSymbol maps to Stooq's ticker convention: US listings carry a ".us"
// suffix and everything is lowercase.
func (f *StooqFetcher) stooqSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return strings.ToLower(symbol) + ".us"
}

func (f *StooqFetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *StooqFetcher) FetchDailyHistory(symbol string, years int) ([]model.PricePoint, error) {
	if years <= 0 {
		years = 5
	}
	end := f.now().UTC()
	start := end.AddDate(-years, 0, 0)
	endpoint := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		f.BaseURL, url.QueryEscape(f.stooqSymbol(symbol)),
		start.Format("20060102"), end.Format("20060102"))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stooq fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stooq: status %d, body: %s", resp.StatusCode, string(body))
	}

	series, err := parseStooqCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("stooq: no data returned for %s", symbol)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// parseStooqCSV reads the Date,Open,High,Low,Close,Volume layout. Rows with
// missing or non-positive closes are skipped rather than failing the fetch.
func parseStooqCSV(r io.Reader) ([]model.PricePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var series []model.PricePoint
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stooq decode: %w", err)
		}
		if first {
			first = false
			if len(record) > 0 && record[0] == "Date" {
				continue // header row
			}
		}
		if len(record) < 5 {
			continue
		}
		date, err := model.ParseDay(record[0])
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(record[4], 64)
		if err != nil || closePrice <= 0 {
			continue
		}
		series = append(series, model.PricePoint{Date: date, Close: closePrice})
	}
	return series, nil
}
