package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"

	"metal-rates/internal/rates"
)

// Export renders the rolling history as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger := a.newLedger(store)
	unit, entries, err := ledger.Recent(ctx, a.Config.History.MaxEntries)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.Logger.Info().Msg("no history entries to export")
		return nil
	}

	downsampled := downsampleEntries(entries, opts.MaxPoints)
	a.Logger.Info().Int("total", len(entries)).Int("exported", len(downsampled)).Msg("exporting history")

	if opts.CSVPath != "" {
		if err := writeHistoryCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeHistoryPNG(opts.PNGPath, unit, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func downsampleEntries(entries []rates.HistoryEntry, max int) []rates.HistoryEntry {
	if max <= 0 || len(entries) <= max {
		return entries
	}

	result := make([]rates.HistoryEntry, 0, max)
	step := float64(len(entries)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(entries) {
			idx = len(entries) - 1
		}
		result = append(result, entries[idx])
	}
	return result
}

func writeHistoryCSV(path string, entries []rates.HistoryEntry) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "gold", "silver", "gold_direction", "silver_direction"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range entries {
		record := []string{
			e.Date,
			e.Gold.String(),
			e.Silver.String(),
			string(e.GoldDirection),
			string(e.SilverDirection),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeHistoryPNG(path, unit string, entries []rates.HistoryEntry) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]float64, len(entries))
	gold := make([]float64, len(entries))
	silver := make([]float64, len(entries))

	for i, e := range entries {
		x[i] = float64(i)
		gold[i] = e.Gold.InexactFloat64()
		silver[i] = e.Silver.InexactFloat64()
	}

	// BS dates are opaque strings, so the x axis is the entry index with the
	// date rendered at each tick.
	dateFormatter := func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		idx := int(math.Round(f))
		if idx < 0 || idx >= len(entries) {
			return ""
		}
		return entries[idx].Date
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: dateFormatter,
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("Gold (Rs/%s)", unit),
		},
		YAxisSecondary: chart.YAxis{
			Name: fmt.Sprintf("Silver (Rs/%s)", unit),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Gold",
				XValues: x,
				YValues: gold,
			},
			chart.ContinuousSeries{
				Name:    "Silver",
				XValues: x,
				YValues: silver,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
