package block

import (
	"fmt"
	"time"
)

const DateTimeLayout = "02.01.2006 15:04:05"

// Describe renders the detail view of a block and its pauses. Open records
// are measured up to now. Timestamps are shown in loc, or in their own
// offset when loc is nil.
func (b Block) Describe(now time.Time, loc *time.Location) ([]string, error) {
	start, err := b.StartTime()
	if err != nil {
		return nil, err
	}

	var lines []string
	if b.IsOpen() {
		lines = append(lines,
			fmt.Sprintf("Block %d - AKTIV", b.ID),
			fmt.Sprintf("Homeoffice: %t", b.Homeoffice),
			fmt.Sprintf("Aktiv seit: %s", in(start, loc).Format(DateTimeLayout)),
			fmt.Sprintf("Zeit: %s", Between(start, now)),
		)
	} else {
		end, err := b.EndTime()
		if err != nil {
			return nil, err
		}
		lines = append(lines,
			fmt.Sprintf("Block %d - ABGESCHLOSSEN", b.ID),
			fmt.Sprintf("Homeoffice: %t", b.Homeoffice),
			fmt.Sprintf("Start: %s", in(start, loc).Format(DateTimeLayout)),
			fmt.Sprintf("End: %s", in(end, loc).Format(DateTimeLayout)),
			fmt.Sprintf("Zeit: %s", Between(start, end)),
		)
	}

	for _, p := range b.Pauses {
		pl, err := p.Describe(now, loc)
		if err != nil {
			return nil, err
		}
		lines = append(lines, pl...)
	}
	return lines, nil
}

func (p Pause) Describe(now time.Time, loc *time.Location) ([]string, error) {
	start, err := p.StartTime()
	if err != nil {
		return nil, err
	}
	if p.IsOpen() {
		return []string{
			fmt.Sprintf("Pause %d - AKTIV", p.ID),
			fmt.Sprintf("Aktiv seit: %s", in(start, loc).Format(DateTimeLayout)),
			fmt.Sprintf("Zeit: %s", Between(start, now)),
		}, nil
	}
	end, err := p.EndTime()
	if err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf("Pause %d - ABGESCHLOSSEN", p.ID),
		fmt.Sprintf("Start: %s", in(start, loc).Format(DateTimeLayout)),
		fmt.Sprintf("End: %s", in(end, loc).Format(DateTimeLayout)),
		fmt.Sprintf("Zeit: %s", Between(start, end)),
	}, nil
}

func in(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
