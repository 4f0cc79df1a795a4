package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/adapter/loader"
	"github.com/lotfolio/lotfolio-backend/internal/adapter/repository/postgres"
	"github.com/lotfolio/lotfolio-backend/internal/config"
	"github.com/lotfolio/lotfolio-backend/internal/domain"
	"github.com/lotfolio/lotfolio-backend/internal/logger"
	"github.com/lotfolio/lotfolio-backend/internal/usecase/engine"
	"github.com/lotfolio/lotfolio-backend/internal/usecase/normalizer"
	"github.com/lotfolio/lotfolio-backend/internal/usecase/report"
)

func main() {
	// 1. Load configuration and logging
	cfg := config.Load()
	slogger := logger.Init(cfg.LogLevel)

	method, err := domain.ParseMethod(cfg.Method)
	if err != nil {
		log.Fatalf("Invalid METHOD: %v", err)
	}

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		log.Fatalf("Invalid TAX_RATE %q: %v", cfg.TaxRate, err)
	}

	// 2. Load and normalize the transaction log
	raws, err := loader.ReadFile(cfg.TransactionsPath)
	if err != nil {
		log.Fatalf("Failed to load transactions: %v", err)
	}

	txs, err := normalizer.NewNormalizer(cfg.BaseCurrency).Normalize(raws)
	if err != nil {
		log.Fatalf("Failed to normalize transactions: %v", err)
	}

	// 3. Run the simulation
	eng, err := engine.NewEngine(engine.Config{
		Method:       method,
		TaxRate:      taxRate,
		BaseCurrency: cfg.BaseCurrency,
	}, slogger)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	result, err := eng.Run(txs)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	// 4. Print the report
	printTaxLedger(method, result)
	printFinalBalance(result)

	// 5. Persist the run when a database is configured
	if cfg.DatabaseConnStr != "" {
		db, err := postgres.NewDB(cfg.DatabaseConnStr)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		service := report.NewReportService(
			postgres.NewTaxRecordRepository(db),
			postgres.NewBalanceHistoryRepository(db),
		)
		runID, err := service.Persist(context.Background(), result)
		if err != nil {
			log.Fatalf("Failed to persist report: %v", err)
		}
		slogger.Info("report persisted", "runID", runID.String())
	}
}

func printTaxLedger(method domain.Method, result *engine.Result) {
	fmt.Printf("Tax ledger (%s):\n", method)
	if len(result.TaxLedger) == 0 {
		fmt.Println("  no taxable events")
		return
	}
	for _, r := range result.TaxLedger {
		fmt.Printf("  %s  %-5s units=%s @ %s  gain=%s  taxes=%s  net=%s  avg=%s\n",
			r.Date.Format("2006-01-02"),
			r.Asset,
			r.Units.String(),
			r.UnitPrice.StringFixed(2),
			r.CapitalGain.StringFixed(2),
			r.Taxes.StringFixed(2),
			r.NetProfit.StringFixed(2),
			r.AverageUnitPrice.StringFixed(2),
		)
	}
}

func printFinalBalance(result *engine.Result) {
	history := result.History
	if len(history) == 0 {
		return
	}

	// The final snapshot is every entry tagged with the last event date
	last := history[len(history)-1].Date
	fmt.Println("Final balance:")
	for _, entry := range history {
		if entry.Date.Equal(last) {
			fmt.Printf("  %-5s units=%s @ %s %s\n",
				entry.Asset, entry.Units.String(), entry.UnitPrice.StringFixed(2), entry.Currency)
		}
	}
}
