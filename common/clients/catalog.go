package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Operation is one entry in the endpoint catalog: a logical operation name
// mapped to its path, its required query parameters and, for chunked
// operations, where the chunk manifest lives in the response document.
type Operation struct {
	Name     string
	Path     string
	Required []string

	// Chunked operations return a manifest instead of the data itself;
	// ChunkPath is the key path from the document root to the manifest.
	Chunked   bool
	ChunkPath []string
}

// Catalog enumerates the remote API surface. The table is purely
// declarative; Do supplies the behavior.
var Catalog = []Operation{
	// Cars
	{Name: "car_assets", Path: "/data/car/assets"},
	{Name: "cars", Path: "/data/car/get"},
	{Name: "carclass", Path: "/data/carclass/get"},

	// Constants
	{Name: "categories", Path: "/data/constants/categories"},
	{Name: "divisions", Path: "/data/constants/divisions"},
	{Name: "event_types", Path: "/data/constants/event_types"},

	// Hosted
	{Name: "hosted_combined_sessions", Path: "/data/hosted/combined_sessions"},
	{Name: "hosted_sessions", Path: "/data/hosted/sessions"},

	// League
	{Name: "league_cust_league_sessions", Path: "/data/league/cust_league_sessions"},
	{Name: "league_directory", Path: "/data/league/directory"},
	{Name: "league_get", Path: "/data/league/get", Required: []string{"league_id"}},
	{Name: "league_points_systems", Path: "/data/league/get_points_systems", Required: []string{"league_id"}},
	{Name: "league_membership", Path: "/data/league/membership", Required: []string{"cust_id"}},
	{Name: "league_roster", Path: "/data/league/roster", Required: []string{"league_id"}},
	{Name: "league_seasons", Path: "/data/league/seasons", Required: []string{"league_id"}},
	{Name: "league_season_standings", Path: "/data/league/season_standings", Required: []string{"league_id", "season_id"}},
	{Name: "league_season_sessions", Path: "/data/league/season_sessions", Required: []string{"league_id", "season_id"}},

	// Lookup
	{Name: "lookup_club_history", Path: "/data/lookup/club_history", Required: []string{"season_year", "season_quarter"}},
	{Name: "lookup_countries", Path: "/data/lookup/countries"},
	{Name: "lookup_drivers", Path: "/data/lookup/drivers", Required: []string{"search_term"}},
	{Name: "lookup_licenses", Path: "/data/lookup/licenses"},

	// Member
	{Name: "member_awards", Path: "/data/member/awards", Required: []string{"cust_id"}},
	{Name: "member_chart_data", Path: "/data/member/chart_data", Required: []string{"cust_id"}},
	{Name: "member_get", Path: "/data/member/get", Required: []string{"cust_ids"}},
	{Name: "member_info", Path: "/data/member/info"},
	{Name: "member_participation_credits", Path: "/data/member/participation_credits"},
	{Name: "member_profile", Path: "/data/member/profile", Required: []string{"cust_id"}},

	// Results
	{Name: "results_get", Path: "/data/results/get", Required: []string{"subsession_id"}},
	{Name: "result_event_log", Path: "/data/results/event_log", Required: []string{"subsession_id", "simsession_number"},
		Chunked: true, ChunkPath: []string{"chunk_info"}},
	{Name: "result_lap_chart_data", Path: "/data/results/lap_chart_data", Required: []string{"subsession_id", "simsession_number"},
		Chunked: true, ChunkPath: []string{"chunk_info"}},
	{Name: "result_lap_data", Path: "/data/results/lap_data", Required: []string{"subsession_id", "simsession_number"},
		Chunked: true, ChunkPath: []string{"chunk_info"}},
	{Name: "result_search_hosted", Path: "/data/results/search_hosted",
		Chunked: true, ChunkPath: []string{"data", "chunk_info"}},
	{Name: "result_search_series", Path: "/data/results/search_series",
		Chunked: true, ChunkPath: []string{"data", "chunk_info"}},
	{Name: "result_season_results", Path: "/data/results/season_results", Required: []string{"season_id"}},

	// Season
	{Name: "season_list", Path: "/data/season/list", Required: []string{"season_year", "season_quarter"}},
	{Name: "season_race_guide", Path: "/data/season/race_guide"},

	// Series
	{Name: "series_assets", Path: "/data/series/assets"},
	{Name: "series", Path: "/data/series/get"},
	{Name: "series_past_seasons", Path: "/data/series/past_seasons", Required: []string{"series_id"}},
	{Name: "series_seasons", Path: "/data/series/seasons"},
	{Name: "series_stats", Path: "/data/series/stats_series"},

	// Stats
	{Name: "stats_member_bests", Path: "/data/stats/member_bests", Required: []string{"cust_id"}},
	{Name: "stats_member_career", Path: "/data/stats/member_career", Required: []string{"cust_id"}},
	{Name: "stats_member_division", Path: "/data/stats/member_division", Required: []string{"season_id", "event_type"}},
	{Name: "stats_member_recap", Path: "/data/stats/member_recap", Required: []string{"cust_id"}},
	{Name: "stats_recent_races", Path: "/data/stats/member_recent_races", Required: []string{"cust_id"}},
	{Name: "stats_member_summary", Path: "/data/stats/member_summary", Required: []string{"cust_id"}},
	{Name: "stats_member_yearly", Path: "/data/stats/member_yearly", Required: []string{"cust_id"}},
	{Name: "season_driver_standings", Path: "/data/stats/season_driver_standings", Required: []string{"season_id", "car_class_id"}},
	{Name: "season_supersession_standings", Path: "/data/stats/season_supersession_standings", Required: []string{"season_id", "car_class_id"}},
	{Name: "season_team_standings", Path: "/data/stats/season_team_standings", Required: []string{"season_id", "car_class_id"}},
	{Name: "season_tt_standings", Path: "/data/stats/season_tt_standings", Required: []string{"season_id", "car_class_id"}},
	{Name: "season_tt_results", Path: "/data/stats/season_tt_results", Required: []string{"season_id", "car_class_id", "race_week_num"}},
	{Name: "season_qualify_results", Path: "/data/stats/season_qualify_results", Required: []string{"season_id", "car_class_id", "race_week_num"}},
	{Name: "world_records", Path: "/data/stats/world_records", Required: []string{"car_id", "track_id"}},

	// Team
	{Name: "team", Path: "/data/team/get", Required: []string{"team_id"}},

	// Time attack
	{Name: "member_season_results", Path: "/data/time_attack/member_season_results", Required: []string{"ta_comp_season_id"}},

	// Tracks
	{Name: "track_assets", Path: "/data/track/assets"},
	{Name: "tracks", Path: "/data/track/get"},
}

// LookupOperation finds a catalog entry by name
func LookupOperation(name string) (Operation, bool) {
	for _, op := range Catalog {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// Do runs one catalog operation: validates required parameters, resolves the
// endpoint and, for chunked operations, assembles the manifest into a single
// flat JSON array. The returned document is always fully materialized; a nil
// document with a nil error means the operation soft-failed on connectivity.
func (c *RacingClient) Do(ctx context.Context, op Operation, params url.Values) (json.RawMessage, error) {
	for _, key := range op.Required {
		if params.Get(key) == "" {
			return nil, &ParamError{Op: op.Name, Param: key}
		}
	}

	doc, err := c.Resolve(ctx, op.Path, params)
	if err != nil || doc == nil {
		return nil, err
	}

	if !op.Chunked {
		return doc, nil
	}

	manifest, err := extractManifest(doc, op.ChunkPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Name, err)
	}

	elements, err := c.AssembleChunks(ctx, manifest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Name, err)
	}

	assembled, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("%s: encode assembly: %w", op.Name, err)
	}
	return json.RawMessage(assembled), nil
}

// Fetch runs the named operation with the catalog-layer error convention:
// any failure is logged as a one-line diagnostic and yields an absent
// document. Callers must treat nil as a valid, non-crashing outcome.
func (c *RacingClient) Fetch(ctx context.Context, name string, params url.Values) json.RawMessage {
	op, ok := LookupOperation(name)
	if !ok {
		c.logger.Error("unknown operation", "operation", name)
		return nil
	}

	doc, err := c.Do(ctx, op, params)
	if err != nil {
		c.logger.Error("operation failed", "operation", name, "kind", errorKind(err), "error", err)
		return nil
	}
	return doc
}
