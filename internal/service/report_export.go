package service

import (
	"fmt"
	"strings"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/reconcile"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/export"

	"github.com/xuri/excelize/v2"
)

var ledgerHeaders = []string{
	"Material", "Store", "Period", "Unit",
	"Initial", "Consumed", "Received", "Waste", "Expected", "Final", "Delta", "Theoretical",
}

// ExportReport renders a report as a workbook with a ledger sheet and a
// diagnostics sheet. It returns the suggested file name.
func ExportReport(report *reconcile.Report) (*excelize.File, string, error) {
	rows := make([][]any, 0, len(report.Rows))
	for _, r := range report.Rows {
		var final, delta any = "N/A", "N/A"
		if !r.Theoretical {
			final = reconcile.Round(r.Final)
		}
		if r.Delta != nil {
			delta = reconcile.Round(*r.Delta)
		}
		rows = append(rows, []any{
			r.MaterialName, r.StoreID, r.BucketKey, string(r.Unit),
			reconcile.Round(r.Initial), reconcile.Round(r.Consumed), reconcile.Round(r.Received),
			reconcile.Round(r.Waste), reconcile.Round(r.Expected), final, delta, r.Theoretical,
		})
	}

	d := report.Diagnostics
	diagnostics := [][]any{
		{"resolution", string(report.Resolution)},
		{"from", report.From},
		{"to", report.To},
		{"store", report.StoreID},
		{"excluded_sales_units", d.ExcludedSalesUnits},
		{"excluded_products", joinOrDash(d.ExcludedProductNames)},
		{"conversion_warnings", d.ConversionWarnings},
		{"unresolved_refs", joinOrDash(d.UnresolvedRefs)},
		{"duplicate_counts", d.DuplicateCounts},
	}

	f, err := export.Workbook(
		export.Sheet{Name: "Reconciliation", Headers: ledgerHeaders, Rows: rows},
		export.Sheet{Name: "Diagnostics", Headers: []string{"Metric", "Value"}, Rows: diagnostics},
	)
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("reconciliation_%s_%s_%s", report.Resolution, report.From, report.To)
	if report.StoreID != "" {
		name += "_" + report.StoreID
	}
	return f, name + ".xlsx", nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
