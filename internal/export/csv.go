// Package export writes a search result set as a CSV file, generated
// entirely on the client with no backend round-trip.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"qaboard/internal/qa"
	"qaboard/internal/render"
)

// utf8BOM prefixes the output so spreadsheet tools detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{
	"id", "chat_id", "timestamp", "question", "answer",
	"match_status", "reflection_completed", "is_sent",
	"session_count", "source_desc",
}

// WriteCSV writes the records as UTF-8 CSV with a BOM. Answer HTML is
// stripped to visible text.
func WriteCSV(w io.Writer, records []qa.QARecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.ChatID,
			r.Timestamp,
			r.Question,
			render.Text(r.Answer),
			qa.MatchStatusLabel(r.MatchStatus),
			strconv.FormatBool(r.ReflectionCompleted),
			strconv.FormatBool(r.IsSent),
			strconv.Itoa(r.SessionCount),
			r.SourceDesc,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
