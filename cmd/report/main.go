package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/noah-isme/sales-report/internal/loader"
	"github.com/noah-isme/sales-report/internal/report"
)

func main() {
	dataPath := flag.String("data", "", "dataset JSON file, or directory with sellers.json, products.json and purchase_records.json")
	policy := flag.String("policy", report.PolicySimple, "revenue policy: simple, proportional or weighted")
	topN := flag.Int("top", report.DefaultTopN, "number of top products per seller")
	format := flag.String("format", "table", "output format: table or json")
	flag.Parse()

	if *dataPath == "" {
		log.Fatal("-data is required")
	}

	dataset, err := loader.FromPath(*dataPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	revenue, err := report.RevenueByName(*policy)
	if err != nil {
		log.Fatalf("select revenue policy: %v", err)
	}

	var stats report.Stats
	rows, err := report.Analyze(dataset, report.Options{
		Revenue: revenue,
		Bonus:   report.TieredBonus{},
		TopN:    *topN,
		Stats:   &stats,
	})
	if err != nil {
		log.Fatalf("analyze sales data: %v", err)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			log.Fatalf("encode report: %v", err)
		}
	case "table":
		printTable(rows)
	default:
		log.Fatalf("unknown format %q", *format)
	}

	if stats.SkippedRecords > 0 || stats.SkippedItems > 0 {
		fmt.Fprintf(os.Stderr, "skipped %d record(s) and %d item(s) referencing unknown sellers or products\n",
			stats.SkippedRecords, stats.SkippedItems)
	}
}

func printTable(rows []report.Row) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSELLER\tREVENUE\tPROFIT\tSALES\tBONUS\tTOP PRODUCT")
	for i, row := range rows {
		top := "-"
		if len(row.TopProducts) > 0 {
			top = fmt.Sprintf("%s x%d", row.TopProducts[0].SKU, row.TopProducts[0].Quantity)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			i+1, row.Name, row.Revenue.StringFixed(2), row.Profit.StringFixed(2),
			row.SalesCount, row.Bonus.StringFixed(2), top)
	}
	_ = w.Flush()
}
