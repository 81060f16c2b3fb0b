package model

import (
	"strings"
	"testing"
	"time"
)

func testMetadata() *TrackMetadata {
	return &TrackMetadata{
		Artists:    []string{"First", "Second"},
		Album:      Album{Name: "Record", NumDiscs: 1},
		DiscNumber: 1,
		Number:     4,
		Title:      "Song",
		Duration:   3 * time.Minute,
	}
}

func TestComputePath_Flat(t *testing.T) {
	tests := []struct {
		name    string
		artists []string
		title   string
		want    string
	}{
		{"single artist", []string{"Solo"}, "Song", "Solo - Song"},
		{"three artists", []string{"A", "B", "C"}, "Song", "A, B, C - Song"},
		{"four artists collapse", []string{"A", "B", "C", "D"}, "Song", "A, B, C, and others - Song"},
		{"five artists collapse", []string{"A", "B", "C", "D", "E"}, "Song", "A, B, C, and others - Song"},
		{"no artists", nil, "Song", " - Song"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := testMetadata()
			meta.Artists = tt.artists
			meta.Title = tt.title
			if got := ComputePath(meta, StructureFlat); got != tt.want {
				t.Errorf("ComputePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComputePath_Album(t *testing.T) {
	tests := []struct {
		name     string
		numDiscs int
		disc     int
		number   int
		want     string
	}{
		{"single disc", 1, 1, 4, "First/Record/04 Song"},
		{"multi disc", 2, 2, 4, "First/Record (Disc 2)/04 Song"},
		{"zero padded", 1, 1, 7, "First/Record/07 Song"},
		{"two digits", 1, 1, 99, "First/Record/99 Song"},
		{"three digits untruncated", 1, 1, 104, "First/Record/104 Song"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := testMetadata()
			meta.Album.NumDiscs = tt.numDiscs
			meta.DiscNumber = tt.disc
			meta.Number = tt.number
			if got := ComputePath(meta, StructureAlbum); got != tt.want {
				t.Errorf("ComputePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComputePath_AlbumArtistIsFirstOnly(t *testing.T) {
	meta := testMetadata()
	meta.Artists = []string{"Lead", "Guest", "Other", "More"}

	got := ComputePath(meta, StructureAlbum)
	if !strings.HasPrefix(got, "Lead/") {
		t.Errorf("album segment should use only the first artist, got %q", got)
	}
}

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain name", "plain name"},
		{"with:colon", "withcolon"},
		{"a<b>c", "abc"},
		{`back\slash`, "backslash"},
		{"pipe|question?star*", "pipequestionstar"},
		{"it's \"quoted\"", "its quoted"},
		{"tab\tand\nnewline", "tabandnewline"},
		{"<>:'\"/\\|?*", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeSegment(tt.input); got != tt.want {
				t.Errorf("SanitizeSegment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSegment_Idempotent(t *testing.T) {
	inputs := []string{"plain", "with:everything?*<>", "tab\there", "日本語タイトル"}
	for _, input := range inputs {
		once := SanitizeSegment(input)
		twice := SanitizeSegment(once)
		if once != twice {
			t.Errorf("SanitizeSegment not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestParseFolderStructure(t *testing.T) {
	tests := []struct {
		input   string
		want    FolderStructure
		wantErr bool
	}{
		{"flat", StructureFlat, false},
		{"FLAT", StructureFlat, false},
		{"Album", StructureAlbum, false},
		{"ALBUM", StructureAlbum, false},
		{"tree", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFolderStructure(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFolderStructure(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseFolderStructure(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAlbumArtist(t *testing.T) {
	meta := testMetadata()
	if got := meta.AlbumArtist(); got != "First" {
		t.Errorf("AlbumArtist() = %q, want %q", got, "First")
	}

	meta.Artists = nil
	if got := meta.AlbumArtist(); got != "" {
		t.Errorf("AlbumArtist() with no artists = %q, want empty", got)
	}
}
