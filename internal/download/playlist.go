package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// playlistName is the batch playlist written at the destination root.
const playlistName = "downloads.m3u"

// writePlaylist writes an extended M3U playlist covering the batch, with
// paths relative to the destination root. Skipped tracks appear without an
// EXTINF line because their metadata was never fetched.
func writePlaylist(destination string, results []trackResult) error {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")

	for _, res := range results {
		if res.Path == "" {
			continue
		}
		rel, err := filepath.Rel(destination, res.Path)
		if err != nil {
			rel = res.Path
		}
		if res.Meta != nil {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n",
				int(res.Meta.Duration.Seconds()),
				strings.Join(res.Meta.Artists, ", "),
				res.Meta.Title))
		}
		sb.WriteString(rel + "\n")
	}

	return os.WriteFile(filepath.Join(destination, playlistName), []byte(sb.String()), 0644)
}
