package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/stempel/internal/block"
)

func ToCSV(blocks []block.Block, now time.Time, path string) error {
	data, err := rows(blocks, now)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"ID", "Start", "End", "Homeoffice", "Pauses", "Worked (s)", "Worked"}); err != nil {
		return err
	}

	for _, r := range data {
		record := []string{
			strconv.Itoa(r.ID),
			r.Start,
			r.End,
			strconv.FormatBool(r.Homeoffice),
			strconv.Itoa(r.Pauses),
			strconv.FormatInt(r.WorkedSec, 10),
			r.Worked,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
