package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Typed wrappers over the catalog for the operations callers reach for most.
// Everything here is parameter assembly; the resolution and chunk protocol
// live in resolver.go and chunks.go.

// CarAssets returns extended copy and image links for the cars
func (c *RacingClient) CarAssets(ctx context.Context) (json.RawMessage, error) {
	return c.doNamed(ctx, "car_assets", nil)
}

// Cars returns the list of all cars
func (c *RacingClient) Cars(ctx context.Context) (json.RawMessage, error) {
	return c.doNamed(ctx, "cars", nil)
}

// CarClasses returns cars grouped by class
func (c *RacingClient) CarClasses(ctx context.Context) (json.RawMessage, error) {
	return c.doNamed(ctx, "carclass", nil)
}

// Tracks returns the list of all tracks
func (c *RacingClient) Tracks(ctx context.Context) (json.RawMessage, error) {
	return c.doNamed(ctx, "tracks", nil)
}

// TrackAssets returns the extended track assets
func (c *RacingClient) TrackAssets(ctx context.Context) (json.RawMessage, error) {
	return c.doNamed(ctx, "track_assets", nil)
}

// MemberInfo returns the authenticated member's account information
func (c *RacingClient) MemberInfo(ctx context.Context) (json.RawMessage, error) {
	return c.doNamed(ctx, "member_info", nil)
}

// MemberProfile returns the profile for custID, falling back to the client's
// default customer ID when custID is zero.
func (c *RacingClient) MemberProfile(ctx context.Context, custID int) (json.RawMessage, error) {
	id, err := c.resolveCustID(custID)
	if err != nil {
		return nil, err
	}
	params := url.Values{"cust_id": []string{strconv.Itoa(id)}}
	return c.doNamed(ctx, "member_profile", params)
}

// RecentRaces returns the member's recent races, with customer-ID fallback
func (c *RacingClient) RecentRaces(ctx context.Context, custID int) (json.RawMessage, error) {
	id, err := c.resolveCustID(custID)
	if err != nil {
		return nil, err
	}
	params := url.Values{"cust_id": []string{strconv.Itoa(id)}}
	return c.doNamed(ctx, "stats_recent_races", params)
}

// Results returns the full result set for one subsession
func (c *RacingClient) Results(ctx context.Context, subsessionID int, includeLicenses bool) (json.RawMessage, error) {
	params := url.Values{
		"subsession_id":    []string{strconv.Itoa(subsessionID)},
		"include_licenses": []string{strconv.FormatBool(includeLicenses)},
	}
	return c.doNamed(ctx, "results_get", params)
}

// ResultEventLog returns the assembled event log for one simsession
func (c *RacingClient) ResultEventLog(ctx context.Context, subsessionID, simsessionNumber int) ([]json.RawMessage, error) {
	params := url.Values{
		"subsession_id":     []string{strconv.Itoa(subsessionID)},
		"simsession_number": []string{strconv.Itoa(simsessionNumber)},
	}
	return c.doChunked(ctx, "result_event_log", params)
}

// ResultLapChartData returns the assembled lap chart for one simsession
func (c *RacingClient) ResultLapChartData(ctx context.Context, subsessionID, simsessionNumber int) ([]json.RawMessage, error) {
	params := url.Values{
		"subsession_id":     []string{strconv.Itoa(subsessionID)},
		"simsession_number": []string{strconv.Itoa(simsessionNumber)},
	}
	return c.doChunked(ctx, "result_lap_chart_data", params)
}

// ResultLapData returns the assembled laps for one driver or team in a
// subsession. For team events pass teamID; custID is then optional (zero
// means all of the team's drivers). For single-driver events custID is
// required, with the usual fallback to the client default.
func (c *RacingClient) ResultLapData(ctx context.Context, subsessionID, simsessionNumber, custID, teamID int) ([]json.RawMessage, error) {
	params := url.Values{
		"subsession_id":     []string{strconv.Itoa(subsessionID)},
		"simsession_number": []string{strconv.Itoa(simsessionNumber)},
	}

	if teamID != 0 {
		params.Set("team_id", strconv.Itoa(teamID))
		if custID != 0 {
			params.Set("cust_id", strconv.Itoa(custID))
		}
	} else {
		id, err := c.resolveCustID(custID)
		if err != nil {
			return nil, err
		}
		params.Set("cust_id", strconv.Itoa(id))
	}

	return c.doChunked(ctx, "result_lap_data", params)
}

// SearchSeriesOptions narrows an official-series results search. A zero
// time range defaults to the last 30 days.
type SearchSeriesOptions struct {
	SeasonYear       int
	SeasonQuarter    int
	StartRangeBegin  time.Time
	StartRangeEnd    time.Time
	FinishRangeBegin time.Time
	FinishRangeEnd   time.Time
	CustID           int
	TeamID           int
	SeriesID         int
	RaceWeekNum      int
	OfficialOnly     bool
}

// SearchSeries searches official series results and assembles the chunked
// answer. The service caps the searchable window at 90 days.
func (c *RacingClient) SearchSeries(ctx context.Context, opts SearchSeriesOptions) ([]json.RawMessage, error) {
	params := url.Values{}

	if opts.StartRangeBegin.IsZero() && opts.FinishRangeBegin.IsZero() && opts.SeasonYear == 0 {
		opts.StartRangeBegin = time.Now().UTC().AddDate(0, 0, -30).Truncate(time.Minute)
	}

	setInt := func(key string, v int) {
		if v != 0 {
			params.Set(key, strconv.Itoa(v))
		}
	}
	setTime := func(key string, v time.Time) {
		if !v.IsZero() {
			params.Set(key, v.UTC().Format("2006-01-02T15:04Z"))
		}
	}

	setInt("season_year", opts.SeasonYear)
	setInt("season_quarter", opts.SeasonQuarter)
	setTime("start_range_begin", opts.StartRangeBegin)
	setTime("start_range_end", opts.StartRangeEnd)
	setTime("finish_range_begin", opts.FinishRangeBegin)
	setTime("finish_range_end", opts.FinishRangeEnd)
	setInt("team_id", opts.TeamID)
	setInt("series_id", opts.SeriesID)
	setInt("race_week_num", opts.RaceWeekNum)
	if opts.OfficialOnly {
		params.Set("official_only", "true")
	}

	id, err := c.resolveCustID(opts.CustID)
	if err != nil {
		return nil, err
	}
	params.Set("cust_id", strconv.Itoa(id))

	return c.doChunked(ctx, "result_search_series", params)
}

// SeasonList returns the seasons for one year/quarter
func (c *RacingClient) SeasonList(ctx context.Context, year, quarter int) (json.RawMessage, error) {
	params := url.Values{
		"season_year":    []string{strconv.Itoa(year)},
		"season_quarter": []string{strconv.Itoa(quarter)},
	}
	return c.doNamed(ctx, "season_list", params)
}

// WorldRecords returns the records for one car/track combination
func (c *RacingClient) WorldRecords(ctx context.Context, carID, trackID int) (json.RawMessage, error) {
	params := url.Values{
		"car_id":   []string{strconv.Itoa(carID)},
		"track_id": []string{strconv.Itoa(trackID)},
	}
	return c.doNamed(ctx, "world_records", params)
}

// driverStatCategories are the only valid path segments for the
// per-category driver stats endpoint.
var driverStatCategories = map[string]bool{
	"oval":        true,
	"sports_car":  true,
	"formula_car": true,
	"road":        true,
	"dirt_oval":   true,
	"dirt_road":   true,
}

// DriverStatsByCategory returns driver stats for one license category. The
// category selects the endpoint path rather than a query parameter.
func (c *RacingClient) DriverStatsByCategory(ctx context.Context, category string) (json.RawMessage, error) {
	if !driverStatCategories[category] {
		return nil, fmt.Errorf("unknown driver stats category %q", category)
	}
	return c.Resolve(ctx, "/data/driver_stats_by_category/"+category, nil)
}

func (c *RacingClient) doNamed(ctx context.Context, name string, params url.Values) (json.RawMessage, error) {
	op, ok := LookupOperation(name)
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", name)
	}
	return c.Do(ctx, op, params)
}

func (c *RacingClient) doChunked(ctx context.Context, name string, params url.Values) ([]json.RawMessage, error) {
	doc, err := c.doNamed(ctx, name, params)
	if err != nil || doc == nil {
		return nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(doc, &elements); err != nil {
		return nil, fmt.Errorf("%s: decode assembly: %w", name, err)
	}
	return elements, nil
}
