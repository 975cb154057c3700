package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chis/servicebook/internal/booking"
	"github.com/chis/servicebook/internal/output"
	"github.com/chis/servicebook/internal/quote"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// QuoteOptions are the flags of the quote command
type QuoteOptions struct {
	Select []int
	Name   string
	Date   string
}

// QuoteResult is the JSON payload of the quote command
type QuoteResult struct {
	Selected []int            `json:"selected"`
	Total    int              `json:"total"`
	Currency string           `json:"currency"`
	Lines    []quote.LineItem `json:"lines"`
	Quote    *quote.Quote     `json:"quote,omitempty"`
	Display  string           `json:"display,omitempty"`
}

func newQuoteCmd(opts *globalOptions) *cobra.Command {
	qopts := &QuoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a selection without the interactive form",
		Long: `Clicks the given services in order, exactly as a user would, then prints
the estimate. Services that are hidden when their turn comes are skipped with a
warning. With --name and --date the selection is submitted and the result
display is printed too.`,
		Example: "  servicebook quote --select 6,7 --name Jan --date 2024-05-01",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, opts, qopts)
		},
	}

	cmd.Flags().IntSliceVar(&qopts.Select, "select", nil, "service ids to click, in order")
	cmd.Flags().StringVar(&qopts.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&qopts.Date, "date", "", "visit date")
	return cmd
}

func runQuote(cmd *cobra.Command, opts *globalOptions, qopts *QuoteOptions) error {
	rt, err := setup(cmd, opts)
	if err != nil {
		return fail(cmd, opts, err)
	}

	form, err := booking.New(booking.Options{
		Catalog:         rt.Catalog,
		Mode:            rt.Mode,
		Logger:          rt.Logger,
		DisplayTemplate: rt.Config.DisplayTemplate,
	})
	if err != nil {
		return fail(cmd, opts, err)
	}

	var warnings []string
	for _, id := range qopts.Select {
		if err := form.Toggle(id); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped service %d: %v", id, err))
		}
	}

	result := QuoteResult{
		Selected: qopts.Select,
		Currency: rt.Catalog.Currency,
	}
	result.Total, result.Lines = form.Total()

	if qopts.Name != "" || qopts.Date != "" {
		q, err := form.OnSubmit(quote.Input{Name: qopts.Name, Date: qopts.Date})
		if err != nil {
			if !errors.Is(err, quote.ErrIncompleteInput) {
				return fail(cmd, opts, err)
			}
			warnings = append(warnings, err.Error())
		}
		result.Quote = q
		result.Display = form.Display()
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		return output.WriteJSONData(out, result, warnings...)
	}

	for _, w := range warnings {
		fmt.Fprintf(out, "%s %s\n", text.FgYellow.Sprint("warning:"), w)
	}
	renderQuoteTable(out, result)
	if result.Display != "" {
		fmt.Fprintf(out, "\n%s\n", result.Display)
	}
	return nil
}

// renderQuoteTable prints the priced services with a total footer
func renderQuoteTable(w io.Writer, result QuoteResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault

	t.AppendHeader(table.Row{"ID", "SERVICE", "COST"})
	for _, line := range result.Lines {
		t.AppendRow(table.Row{line.ID, line.Name, fmt.Sprintf("%d%s", line.Cost, result.Currency)})
	}
	t.AppendFooter(table.Row{"", "TOTAL", fmt.Sprintf("%d%s", result.Total, result.Currency)})
	t.Render()
}
