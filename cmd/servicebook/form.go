package main

import (
	"github.com/chis/servicebook/internal/booking"
	"github.com/chis/servicebook/internal/events"
	"github.com/chis/servicebook/internal/tui"
	"github.com/spf13/cobra"
)

func newFormCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the interactive booking form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(cmd, opts)
		},
	}
}

func runForm(cmd *cobra.Command, opts *globalOptions) error {
	rt, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	bus := events.NewBus()
	form, err := booking.New(booking.Options{
		Catalog:         rt.Catalog,
		Mode:            rt.Mode,
		Logger:          rt.Logger,
		Bus:             bus,
		DisplayTemplate: rt.Config.DisplayTemplate,
	})
	if err != nil {
		return err
	}

	return tui.Run(form, bus, rt.Logger)
}
