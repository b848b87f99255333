package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/bom"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/repository"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/service"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	from := flag.String("from", yesterday, "first day, YYYY-MM-DD")
	to := flag.String("to", yesterday, "last day, YYYY-MM-DD")
	store := flag.String("store", "", "store id, empty for every store")
	resolution := flag.String("resolution", "daily", "daily, weekly or monthly")
	out := flag.String("out", ".", "directory the workbook is written to")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()
	svc := service.NewReconciliationService(service.Repositories{
		Materials:      repository.NewRawMaterialRepo(db),
		Recipes:        repository.NewRecipeRepo(db),
		Sales:          repository.NewSalesRepo(db),
		Counts:         repository.NewInventoryCountRepo(db),
		Replenishments: repository.NewReplenishmentRepo(db),
		Waste:          repository.NewWasteRepo(db),
	}, nil, database.Location())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := svc.BuildReport(ctx, service.ReportQuery{
		From:       *from,
		To:         *to,
		StoreID:    *store,
		Resolution: *resolution,
	})
	if err != nil {
		var cyc *bom.CyclicBOMError
		if errors.As(err, &cyc) {
			log.Fatalf("Recipes contain a cycle: %v", cyc.Path)
		}
		log.Fatalf("Failed to build reconciliation: %v", err)
	}

	f, name, err := service.ExportReport(report)
	if err != nil {
		log.Fatalf("Failed to export reconciliation: %v", err)
	}
	defer f.Close()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	path := filepath.Join(*out, name)
	if err := f.SaveAs(path); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}

	d := report.Diagnostics
	log.Printf("Wrote %d rows to %s", len(report.Rows), path)
	if d.HasWarnings() {
		log.Printf("Warning: %d sold units without recipe %v, %d conversion warnings, unresolved refs %v",
			d.ExcludedSalesUnits, d.ExcludedProductNames, d.ConversionWarnings, d.UnresolvedRefs)
	}
}
