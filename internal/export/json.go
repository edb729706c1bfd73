package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/stempel/internal/block"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Blocks     []jsonBlock `json:"blocks"`
}

type jsonBlock struct {
	ID         int    `json:"id"`
	Start      string `json:"start"`
	End        string `json:"end,omitempty"`
	Homeoffice bool   `json:"homeoffice"`
	Pauses     int    `json:"pauses"`
	WorkedSec  int64  `json:"worked_seconds"`
	Worked     string `json:"worked"`
}

func ToJSON(blocks []block.Block, now time.Time, path string) error {
	data, err := rows(blocks, now)
	if err != nil {
		return err
	}

	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(data),
	}
	for _, r := range data {
		export.Blocks = append(export.Blocks, jsonBlock(r))
	}

	out, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FileName returns the default export file name for format on day.
func FileName(format string, day time.Time) string {
	return fmt.Sprintf("stempel-export-%s.%s", day.Format("2006-01-02"), format)
}
