package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// Show prints recent history entries.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger := a.newLedger(store)
	unit, entries, err := ledger.Recent(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "no history entries found")
		return nil
	}

	fmt.Fprintf(os.Stdout, "unit: %s\n", unit)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date (BS)\tGold\tSilver\tGold Trend\tSilver Trend")

	for _, e := range entries {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\n",
			e.Date,
			e.Gold.StringFixed(0),
			e.Silver.StringFixed(0),
			e.GoldDirection,
			e.SilverDirection,
		)
	}

	return writer.Flush()
}
