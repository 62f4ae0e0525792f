package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dwcexport/internal/deliveries"
)

type deliveryJSON struct {
	Provider         string    `json:"provider"`
	Variant          string    `json:"variant"`
	Fingerprint      int64     `json:"fingerprint"`
	ObservationCount int64     `json:"observation_count"`
	ArchivePath      string    `json:"archive_path"`
	RunID            string    `json:"run_id,omitempty"`
	DeliveredAt      time.Time `json:"delivered_at"`
}

func newDeliveriesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "Inspect and edit the delivery ledger",
	}
	cmd.AddCommand(newDeliveriesListCommand(ctx))
	cmd.AddCommand(newDeliveriesHistoryCommand(ctx))
	cmd.AddCommand(newDeliveriesForgetCommand(ctx))
	return cmd
}

func withStore(ctx *commandContext, fn func(*deliveries.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := deliveries.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func printDeliveries(cmd *cobra.Command, ctx *commandContext, list []deliveries.Delivery) error {
	if ctx.JSONMode() {
		out := make([]deliveryJSON, 0, len(list))
		for _, d := range list {
			out = append(out, deliveryJSON(d))
		}
		return writeJSON(cmd, out)
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No deliveries recorded")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		rows = append(rows, []string{
			d.Provider,
			d.Variant,
			strconv.FormatInt(d.ObservationCount, 10),
			strconv.FormatInt(d.Fingerprint, 10),
			d.DeliveredAt.Local().Format("2006-01-02 15:04"),
			d.ArchivePath,
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Provider", "Variant", "Observations", "Fingerprint", "Delivered", "Archive"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	))
	return nil
}

func newDeliveriesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the latest delivery per provider and variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *deliveries.Store) error {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				return printDeliveries(cmd, ctx, list)
			})
		},
	}
}

func newDeliveriesHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <provider>",
		Short: "Show past deliveries of a provider, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *deliveries.Store) error {
				list, err := store.History(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				return printDeliveries(cmd, ctx, list)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func newDeliveriesForgetCommand(ctx *commandContext) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "forget <provider>",
		Short: "Drop the latest delivery so the next export re-delivers the provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if variant == "" {
				variant = cfg.Export.Variant
			}
			return withStore(ctx, func(store *deliveries.Store) error {
				removed, err := store.Forget(cmd.Context(), args[0], variant)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"provider": args[0], "variant": variant, "removed": removed})
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s delivery recorded for %s\n", variant, args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s delivery of %s\n", variant, args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "Archive variant (default: configured variant)")
	return cmd
}
