package encoder

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/rosenkrans/trackrip/internal/model"
)

// newTag builds the ID3v2 tag prepended to MP3 output.
//
// Frames written:
//   - TPE1 (artist): the full joined artist list
//   - TPE2 (album artist): the first listed artist
//   - TALB, TIT2, TRCK, TPOS
//   - APIC when cover art is present (JPEG front cover)
func newTag(meta *model.TrackMetadata, cover []byte) *id3v2.Tag {
	tag := id3v2.NewEmptyTag()

	tag.SetArtist(strings.Join(meta.Artists, ", "))
	tag.SetAlbum(meta.Album.Name)
	tag.SetTitle(meta.Title)
	if albumArtist := meta.AlbumArtist(); albumArtist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, albumArtist)
	}
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", meta.Number))
	if meta.DiscNumber > 0 {
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, fmt.Sprintf("%d", meta.DiscNumber))
	}

	if len(cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	return tag
}
