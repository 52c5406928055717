package taste

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestBuildInclusion(t *testing.T) {
	items := []RatedItem{
		{Artist: "Keeper", RatingPercent: 60},
		{Artist: "Borderline", RatingPercent: 59},
		{Artist: "Video Only", RatingPercent: 0, HasVideo: true},
	}
	f := Build(items, 3)

	if !f.Contains("Keeper") {
		t.Fatalf("60%% at 3 stars should be included")
	}
	if f.Contains("Borderline") {
		t.Fatalf("59%% at 3 stars should be excluded")
	}
	if !f.Contains("Video Only") {
		t.Fatalf("video flag should include regardless of rating")
	}
}

func TestContainsIsFuzzy(t *testing.T) {
	f := Build([]RatedItem{{Artist: "The Beatles", RatingPercent: 100}}, 3)
	if !f.Contains("Beatles") {
		t.Fatalf("stop-word variant should match")
	}
	if !f.Contains("BEATLES!!") {
		t.Fatalf("punctuation variant should match")
	}
	if f.Contains("Rolling Stones") {
		t.Fatalf("unrelated name should not match")
	}
	if got := f.DisplayName("beatles"); got != "The Beatles" {
		t.Fatalf("expected canonical display name, got %q", got)
	}
}

func TestBuildCollapsesDuplicateKeys(t *testing.T) {
	items := []RatedItem{
		{Artist: "Low", RatingPercent: 100},
		{Artist: "The Low", RatingPercent: 100},
	}
	f := Build(items, 3)
	if f.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", f.Len())
	}
}

func TestLoadLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE tracks (artist TEXT, rating INTEGER, video INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	seed := `INSERT INTO tracks (artist, rating, video) VALUES
		('Spoon', 40, 0),
		('Spoon', 80, 0),
		('Calexico', NULL, 1),
		('', 100, 0)`
	if _, err := db.Exec(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	items, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 artists, got %d", len(items))
	}
	if items[0].Artist != "Spoon" || items[0].RatingPercent != 80 || items[0].HasVideo {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Artist != "Calexico" || items[1].RatingPercent != 0 || !items[1].HasVideo {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestLoadLibraryMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE unrelated (x TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	db.Close()

	if _, err := LoadLibrary(path); err == nil {
		t.Fatalf("expected error for library without tracks table")
	}
}
