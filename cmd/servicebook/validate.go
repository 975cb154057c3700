package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/output"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// errCatalogWarnings fails validate --strict
var errCatalogWarnings = errors.New("catalog has warnings")

// ValidationReport is the JSON payload of the validate command
type ValidationReport struct {
	Services int      `json:"services"`
	Sections int      `json:"sections"`
	Warnings []string `json:"warnings"`
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog for problems",
		Long: `Loads the catalog (failing on malformed YAML, bad ids, negative costs or
dependency cycles) and reports problems the form tolerates at runtime:
dependencies on services that do not exist, services placed in undeclared
sections, declared sections without services and exclusive groups spread
over several sections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return fail(cmd, opts, err)
			}

			report := ValidationReport{
				Services: rt.Catalog.Graph.Len(),
				Sections: len(rt.Catalog.Sections),
				Warnings: catalogWarnings(rt.Catalog),
			}

			out := cmd.OutOrStdout()
			if opts.JSON {
				if err := output.WriteJSONData(out, report, report.Warnings...); err != nil {
					return err
				}
			} else {
				for _, w := range report.Warnings {
					fmt.Fprintf(out, "%s %s\n", text.FgYellow.Sprint("warning:"), w)
				}
				fmt.Fprintf(out, "%s %d services in %d sections, %d warnings\n",
					text.FgGreen.Sprint("ok:"), report.Services, report.Sections, len(report.Warnings))
			}

			if strict && len(report.Warnings) > 0 {
				return errCatalogWarnings
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when there are warnings")
	return cmd
}

// catalogWarnings lists the non-fatal problems of cat
func catalogWarnings(cat *catalog.Catalog) []string {
	warnings := make([]string, 0)
	g := cat.Graph

	for _, d := range g.Dangling() {
		warnings = append(warnings, fmt.Sprintf("service %d depends on service %d which does not exist", d.ServiceID, d.DependencyID))
	}

	used := make(map[string]bool)
	for _, svc := range g.Services() {
		used[svc.Section] = true
		if !cat.HasSection(svc.Section) {
			warnings = append(warnings, fmt.Sprintf("service %d is placed in undeclared section %q and will not be shown", svc.ID, svc.Section))
		}
	}

	for _, sec := range cat.Sections {
		if !used[sec.Key] {
			warnings = append(warnings, fmt.Sprintf("section %q has no services", sec.Key))
		}
	}

	groups := g.Groups()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sections := make(map[string]bool)
		for _, id := range groups[name] {
			svc, _ := g.ByID(id)
			sections[svc.Section] = true
		}
		if len(sections) > 1 {
			warnings = append(warnings, fmt.Sprintf("exclusive group %q spans %d sections", name, len(sections)))
		}
	}

	return warnings
}
