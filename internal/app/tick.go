package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"metal-rates/internal/metrics"
)

// Tick runs a single ingestion and notification cycle and prints the payload.
func (a *App) Tick(ctx context.Context) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := a.newService(store, metrics.New(prometheus.NewRegistry()))

	resp, err := svc.RunCycle(ctx)
	if resp != nil {
		doc, marshalErr := json.MarshalIndent(resp, "", "  ")
		if marshalErr != nil {
			return marshalErr
		}
		fmt.Fprintln(os.Stdout, string(doc))
	}
	return err
}
