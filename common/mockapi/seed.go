package mockapi

import "github.com/apexline/racedata/common/clients"

// Seed loads a small development data set: one account and a handful of
// endpoints covering all three response shapes (inline, linked, chunked).
// The password for the seeded account is "racer".
func (s *Server) Seed() {
	s.AddAccount(Account{
		Email:           "dev@example.com",
		EncodedPassword: clients.EncodePassword("dev@example.com", "racer"),
		CustID:          100001,
	})

	s.SetInline("/data/constants/categories", []any{
		map[string]any{"label": "Oval", "value": 1},
		map[string]any{"label": "Road", "value": 2},
		map[string]any{"label": "Dirt oval", "value": 3},
		map[string]any{"label": "Dirt road", "value": 4},
	})

	s.SetInline("/data/member/info", map[string]any{
		"cust_id":      100001,
		"display_name": "Dev Driver",
		"club_name":    "UK and I",
	})

	s.SetLinked("/data/car/get", []any{
		map[string]any{"car_id": 1, "car_name": "Skip Barber Formula 2000"},
		map[string]any{"car_id": 5, "car_name": "Legends Ford '34 Coupe"},
		map[string]any{"car_id": 20, "car_name": "Dallara IR-18"},
	})

	s.SetLinked("/data/track/get", []any{
		map[string]any{"track_id": 1, "track_name": "Lime Rock Park"},
		map[string]any{"track_id": 33, "track_name": "Oulton Park Circuit"},
	})

	s.SetChunked("/data/results/lap_data", false,
		[]any{
			map[string]any{"lap_number": 1, "lap_time": 871234},
			map[string]any{"lap_number": 2, "lap_time": 869981},
		},
		[]any{
			map[string]any{"lap_number": 3, "lap_time": 870412},
		},
	)

	s.SetChunked("/data/results/search_series", true,
		[]any{
			map[string]any{"subsession_id": 68837306, "series_id": 139},
			map[string]any{"subsession_id": 68837411, "series_id": 139},
		},
	)
}
