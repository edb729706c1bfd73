package export

import (
	"fmt"
	"time"

	"github.com/sadopc/stempel/internal/block"
)

type row struct {
	ID         int
	Start      string
	End        string
	Homeoffice bool
	Pauses     int
	WorkedSec  int64
	Worked     string
}

// rows flattens blocks for export. Open blocks are measured up to now and
// keep an empty end.
func rows(blocks []block.Block, now time.Time) ([]row, error) {
	out := make([]row, 0, len(blocks))
	for _, b := range blocks {
		start, err := b.StartTime()
		if err != nil {
			return nil, fmt.Errorf("export block %d: %w", b.ID, err)
		}
		endStr := ""
		if !b.IsOpen() {
			end, err := b.EndTime()
			if err != nil {
				return nil, fmt.Errorf("export block %d: %w", b.ID, err)
			}
			endStr = end.Local().Format(time.RFC3339)
		}
		worked, err := b.Worked(now)
		if err != nil {
			return nil, fmt.Errorf("export block %d: %w", b.ID, err)
		}
		secs := int64(worked / time.Second)
		out = append(out, row{
			ID:         b.ID,
			Start:      start.Local().Format(time.RFC3339),
			End:        endStr,
			Homeoffice: b.Homeoffice,
			Pauses:     len(b.Pauses),
			WorkedSec:  secs,
			Worked:     block.Split(secs).String(),
		})
	}
	return out, nil
}
