package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultAPIBase = "https://apis.data.go.kr/B090041/openapi/service/SpcdeInfoService/getRestDeInfo"

// Client fetches public holidays from the national special-day API. It is
// optional: with an empty service key every lookup answers from the builtin
// table.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
}

func NewClient(baseURL, serviceKey string) *Client {
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		serviceKey: serviceKey,
	}
}

// YearHolidays returns the holidays for a year, falling back to the builtin
// table on any fetch or decode failure.
func (c *Client) YearHolidays(ctx context.Context, year int) []Info {
	if c.serviceKey == "" {
		return BuiltinYear(year)
	}
	infos, err := c.fetchYear(ctx, year)
	if err != nil {
		log.Printf("[warn] holiday lookup for %d failed, using builtin table: %v", year, err)
		return BuiltinYear(year)
	}
	return infos
}

type apiResponse struct {
	Response struct {
		Body struct {
			Items struct {
				Item json.RawMessage `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type apiItem struct {
	Locdate   int64  `json:"locdate"` // yyyymmdd
	DateName  string `json:"dateName"`
	IsHoliday string `json:"isHoliday"` // "Y" / "N"
}

func (c *Client) fetchYear(ctx context.Context, year int) ([]Info, error) {
	q := url.Values{}
	q.Set("serviceKey", c.serviceKey)
	q.Set("solYear", fmt.Sprintf("%d", year))
	q.Set("_type", "json")
	q.Set("numOfRows", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch holidays: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items, err := decodeItems(parsed.Response.Body.Items.Item)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(items))
	for _, item := range items {
		if item.Locdate == 0 {
			continue
		}
		d := fmt.Sprintf("%08d", item.Locdate)
		infos = append(infos, Info{
			Date:      fmt.Sprintf("%s-%s-%s", d[:4], d[4:6], d[6:8]),
			Name:      item.DateName,
			IsHoliday: item.IsHoliday == "Y",
		})
	}
	return infos, nil
}

// decodeItems accepts both shapes the API produces: a single object when
// the year has one entry, an array otherwise.
func decodeItems(raw json.RawMessage) ([]apiItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []apiItem
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single apiItem
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode holiday items: %w", err)
	}
	return []apiItem{single}, nil
}
