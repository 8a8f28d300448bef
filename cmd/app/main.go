package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/orhanozan33/baharat-sub000/internal/adapters/cli"
	"github.com/orhanozan33/baharat-sub000/internal/ai"
	"github.com/orhanozan33/baharat-sub000/internal/app"
	"github.com/orhanozan33/baharat-sub000/internal/core"
	"github.com/orhanozan33/baharat-sub000/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: app <summary|statement|balances|propose|confirm> [args]")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "USD"
	}

	defaultTaxes, err := parseTaxRates(os.Getenv("TAX_RATES"))
	if err != nil {
		log.Fatalf("TAX_RATES: %v", err)
	}

	var reconcileOpts []core.ReconcileOption
	if os.Getenv("LEDGER_SKIP_CANCELLED") == "true" {
		reconcileOpts = append(reconcileOpts, core.SkipCancelled(true))
	}

	dealerService := core.NewDealerService(pool, reconcileOpts...)
	catalogService := core.NewCatalogService(pool)
	orderService := core.NewOrderService(pool, currency, defaultTaxes)
	paymentService := core.NewPaymentService(pool)
	checkService := core.NewCheckService(pool)
	reportingService := core.NewReportingService(pool)
	agent := ai.NewAgent(os.Getenv("OPENAI_API_KEY"))

	// The one-shot CLI never caches; it reads fresh state every run.
	svc := app.NewAppService(pool, dealerService, catalogService, orderService,
		paymentService, checkService, reportingService, agent, nil)

	cli.Run(ctx, svc, os.Args[1:])
}

// parseTaxRates parses the TAX_RATES env variable, a comma-separated list
// of name:rate pairs, e.g. "GST:5,PST:8". Empty input means no tax.
func parseTaxRates(raw string) ([]core.TaxLine, error) {
	if raw == "" {
		return nil, nil
	}
	var taxes []core.TaxLine
	for _, part := range strings.Split(raw, ",") {
		name, rateStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("malformed entry %q (expected name:rate)", part)
		}
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid rate in %q: %w", part, err)
		}
		taxes = append(taxes, core.TaxLine{Name: name, Rate: rate})
	}
	return taxes, nil
}
