package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// defaultPageSize matches the reference API's maximum page size.
const defaultPageSize = 100

// Client fetches reference data from an Ergast-compatible API with
// transparent pagination.
type Client struct {
	baseURL  string
	pageSize int
	http     *RateLimitedHTTPClient
}

// NewClient creates an API client. baseURL carries no trailing slash,
// e.g. "https://api.jolpi.ca/ergast/f1".
func NewClient(baseURL string, pageSize int, httpClient *RateLimitedHTTPClient) *Client {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		baseURL:  baseURL,
		pageSize: pageSize,
		http:     httpClient,
	}
}

// Seasons fetches all championship seasons.
func (c *Client) Seasons(ctx context.Context) ([]apiSeason, error) {
	var all []apiSeason
	err := c.paginate(ctx, "/seasons", func(mr *mrData) int {
		if mr.SeasonTable == nil {
			return 0
		}
		all = append(all, mr.SeasonTable.Seasons...)
		return len(mr.SeasonTable.Seasons)
	})
	return all, err
}

// Circuits fetches all circuits.
func (c *Client) Circuits(ctx context.Context) ([]apiCircuit, error) {
	var all []apiCircuit
	err := c.paginate(ctx, "/circuits", func(mr *mrData) int {
		if mr.CircuitTable == nil {
			return 0
		}
		all = append(all, mr.CircuitTable.Circuits...)
		return len(mr.CircuitTable.Circuits)
	})
	return all, err
}

// Drivers fetches drivers, optionally scoped to a season.
func (c *Client) Drivers(ctx context.Context, season string) ([]apiDriver, error) {
	var all []apiDriver
	err := c.paginate(ctx, seasonPath(season, "/drivers"), func(mr *mrData) int {
		if mr.DriverTable == nil {
			return 0
		}
		all = append(all, mr.DriverTable.Drivers...)
		return len(mr.DriverTable.Drivers)
	})
	return all, err
}

// Constructors fetches constructors, optionally scoped to a season.
func (c *Client) Constructors(ctx context.Context, season string) ([]apiConstructor, error) {
	var all []apiConstructor
	err := c.paginate(ctx, seasonPath(season, "/constructors"), func(mr *mrData) int {
		if mr.ConstructorTable == nil {
			return 0
		}
		all = append(all, mr.ConstructorTable.Constructors...)
		return len(mr.ConstructorTable.Constructors)
	})
	return all, err
}

// Races fetches the race calendar, optionally scoped to a season.
func (c *Client) Races(ctx context.Context, season string) ([]apiRace, error) {
	return c.raceTables(ctx, seasonPath(season, "/races"))
}

// Results fetches races with their full result classifications attached.
func (c *Client) Results(ctx context.Context, season string) ([]apiRace, error) {
	return c.raceTables(ctx, seasonPath(season, "/results"))
}

// Qualifying fetches races with their qualifying classifications attached.
func (c *Client) Qualifying(ctx context.Context, season string) ([]apiRace, error) {
	return c.raceTables(ctx, seasonPath(season, "/qualifying"))
}

func (c *Client) raceTables(ctx context.Context, endpoint string) ([]apiRace, error) {
	var all []apiRace
	err := c.paginate(ctx, endpoint, func(mr *mrData) int {
		if mr.RaceTable == nil {
			return 0
		}
		all = append(all, mr.RaceTable.Races...)
		return len(mr.RaceTable.Races)
	})
	return all, err
}

// paginate walks an endpoint page by page until a page comes back empty.
// collect returns the number of items it consumed from the page.
func (c *Client) paginate(ctx context.Context, endpoint string, collect func(*mrData) int) error {
	offset := 0
	for {
		url := fmt.Sprintf("%s%s.json?limit=%d&offset=%d", c.baseURL, endpoint, c.pageSize, offset)

		mr, err := c.fetch(ctx, url)
		if err != nil {
			return err
		}

		if collect(mr) == 0 {
			return nil
		}

		offset += c.pageSize
		if total, err := strconv.Atoi(mr.Total); err == nil && offset >= total {
			return nil
		}
	}
}

func (c *Client) fetch(ctx context.Context, url string) (*mrData, error) {
	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	return &payload.MRData, nil
}

func seasonPath(season, endpoint string) string {
	if season == "" {
		return endpoint
	}
	return "/" + season + endpoint
}
