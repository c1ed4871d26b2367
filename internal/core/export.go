package core

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ExportColumns is the header row written by WriteCSV.
var ExportColumns = []string{
	"id", "title", "summary", "content", "image_url", "subtitle",
	"badge_image_url", "top_bar_color", "profile_images", "progress", "metadata",
}

// exportFlushInterval is how many rows are buffered before flushing to w.
const exportFlushInterval = 500

// WriteCSV writes cards as CSV in the given order, header first.
// Subtitles are joined with " • ", profile images with ";" and metadata is
// written as a JSON object.
func WriteCSV(w io.Writer, cards []Card) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, c := range cards {
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata for card %q: %w", c.ID, err)
		}

		record := []string{
			c.ID,
			c.Title,
			c.Summary,
			c.Content,
			c.ImageURL,
			strings.Join(c.Subtitle, " • "),
			c.BadgeImageURL,
			c.TopBarColor,
			strings.Join(c.ProfileImages, ";"),
			strconv.FormatFloat(c.Progress, 'f', -1, 64),
			string(meta),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}

		if (i+1)%exportFlushInterval == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
