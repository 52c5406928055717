package taste

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// RatedItem is one artist row distilled from the media-library export.
type RatedItem struct {
	Artist        string
	RatingPercent int
	HasVideo      bool
}

// LoadLibrary reads the media-library sqlite export and reduces its
// per-track rows to unique artists, keeping the highest rating seen and
// whether any track has a video. The export schema is
// tracks(artist TEXT, rating INTEGER, video INTEGER).
func LoadLibrary(path string) ([]RatedItem, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open library %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT artist, COALESCE(rating, 0), COALESCE(video, 0) FROM tracks WHERE artist <> ''`)
	if err != nil {
		return nil, fmt.Errorf("read library %s: %w", path, err)
	}
	defer rows.Close()

	byArtist := make(map[string]*RatedItem)
	var order []string
	for rows.Next() {
		var artist string
		var rating, video int
		if err := rows.Scan(&artist, &rating, &video); err != nil {
			return nil, fmt.Errorf("scan library row: %w", err)
		}
		item, ok := byArtist[artist]
		if !ok {
			item = &RatedItem{Artist: artist}
			byArtist[artist] = item
			order = append(order, artist)
		}
		if rating > item.RatingPercent {
			item.RatingPercent = rating
		}
		if video != 0 {
			item.HasVideo = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read library %s: %w", path, err)
	}

	items := make([]RatedItem, 0, len(order))
	for _, artist := range order {
		items = append(items, *byArtist[artist])
	}
	return items, nil
}
