package action

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/sadopc/stempel/internal/block"
	"github.com/sadopc/stempel/internal/command"
)

const statsHeight = 10

type dayTotal struct {
	Day    time.Time
	Worked time.Duration
}

// dailyTotals sums worked time per calendar day in loc for the last days
// days up to and including now. A block counts for the day it started on.
func dailyTotals(blocks []block.Block, now time.Time, loc *time.Location, days int) []dayTotal {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(days - 1))

	totals := make([]dayTotal, days)
	for i := range totals {
		totals[i].Day = first.AddDate(0, 0, i)
	}

	for _, b := range blocks {
		start, err := b.StartTime()
		if err != nil {
			log.Printf("stats: skipping block %d: %v", b.ID, err)
			continue
		}
		s := start.In(loc)
		day := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
		if day.Before(first) || day.After(today) {
			continue
		}
		worked, err := b.Worked(now)
		if err != nil {
			log.Printf("stats: skipping block %d: %v", b.ID, err)
			continue
		}
		for i := range totals {
			if totals[i].Day.Equal(day) {
				totals[i].Worked += worked
				break
			}
		}
	}
	return totals
}

func (h *Handler) stats(ctx context.Context, cmd command.Command, width int) Result {
	blocks, err := h.svc.AllBlocks(ctx)
	if err != nil {
		return h.failure(cmd, err, "> Blöcke konnten nicht geladen werden")
	}

	totals := dailyTotals(blocks, h.now(), h.loc, h.statsDays)
	lines := []string{successStyle.Render(fmt.Sprintf("> Arbeitszeit der letzten %d Tage", h.statsDays))}
	lines = append(lines, strings.Split(renderChart(totals, width), "\n")...)

	var sum time.Duration
	for _, t := range totals {
		lines = append(lines, fmt.Sprintf("  %s  %s", t.Day.Format("Mon 02.01."), block.Split(int64(t.Worked.Seconds()))))
		sum += t.Worked
	}
	lines = append(lines, headerStyle.Render(fmt.Sprintf("  Summe       %s", block.Split(int64(sum.Seconds())))))
	return Result{Lines: lines}
}

func renderChart(totals []dayTotal, width int) string {
	chartWidth := width - 4
	if chartWidth < 20 {
		chartWidth = 20
	}
	chart := barchart.New(chartWidth, statsHeight)

	var bars []barchart.BarData
	for _, t := range totals {
		value := barchart.BarValue{Name: "Arbeit", Value: t.Worked.Hours(), Style: barStyle}
		if t.Worked == 0 {
			value = barchart.BarValue{Name: "", Value: 0, Style: emptyStyle}
		}
		bars = append(bars, barchart.BarData{
			Label:  t.Day.Format("02.01"),
			Values: []barchart.BarValue{value},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}
