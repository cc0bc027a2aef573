// Package main seeds demo data for local development: companies, employees,
// and the four material catalogs. Uses the COPY protocol for bulk loads.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"tenderdesk/internal/config"
	"tenderdesk/internal/core/id"
	"tenderdesk/internal/domain/catalogs/material"
	"tenderdesk/internal/infrastructure/storage/postgres"
	"tenderdesk/pkg/logger"
)

var materialColumns = []string{
	"id", "ref_id", "code", "name", "category", "unit", "base_price",
	"supplier_name", "manufacturer", "active", "quotes",
	"deletion_mark", "version", "attributes",
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	count := flag.Int("count", 50, "materials per catalog")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Postgres.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	inserter := postgres.NewBatchInserter(txManager)

	companyRefs, err := seedCompanies(ctx, inserter)
	if err != nil {
		log.Fatalw("seed companies failed", "error", err)
	}
	log.Infow("companies seeded", "count", len(companyRefs))

	if err := seedEmployees(ctx, inserter, companyRefs); err != nil {
		log.Fatalw("seed employees failed", "error", err)
	}

	tables := map[material.Kind]string{
		material.KindRawMaterial:  "cat_raw_materials",
		material.KindLocalProduct: "cat_local_products",
		material.KindForeign:      "cat_foreign_products",
		material.KindManufactured: "cat_manufactured_products",
	}
	for kind, table := range tables {
		n, err := seedMaterials(ctx, inserter, kind, table, *count)
		if err != nil {
			log.Fatalw("seed materials failed", "table", table, "error", err)
		}
		log.Infow("materials seeded", "table", table, "count", n)
	}

	log.Info("seed complete")
}

func seedCompanies(ctx context.Context, inserter *postgres.BatchInserter) ([]string, error) {
	columns := []string{
		"id", "ref_id", "code", "name", "type", "tax_number",
		"deletion_mark", "version", "attributes",
	}

	names := []struct {
		name  string
		cType string
	}{
		{"Apex Construction Group", "buyer"},
		{"Northline Materials Ltd", "supplier"},
		{"Crescent Trading FZE", "supplier"},
		{"Metro Infrastructure JSC", "both"},
	}

	refs := make([]string, 0, len(names))
	rows := make([][]any, 0, len(names))
	for i, c := range names {
		ref := id.NewRef(id.KindCompany)
		refs = append(refs, ref)
		rows = append(rows, []any{
			id.New(), ref, fmt.Sprintf("CO-%06d", i+1), c.name, c.cType,
			fmt.Sprintf("30%07d", i+1), false, 1, nil,
		})
	}

	if _, err := inserter.CopyFromSlice(ctx, "cat_companies", columns, rows); err != nil {
		return nil, err
	}
	return refs, nil
}

func seedEmployees(ctx context.Context, inserter *postgres.BatchInserter, companyRefs []string) error {
	columns := []string{
		"id", "ref_id", "code", "name", "company_ref", "position",
		"deletion_mark", "version", "attributes",
	}

	names := []string{"Amina Yusuf", "Daniel Okafor", "Elena Petrova", "Samuel Mensah"}

	rows := make([][]any, 0, len(names))
	for i, name := range names {
		rows = append(rows, []any{
			id.New(), id.NewRef(id.KindEmployee), fmt.Sprintf("EM-%06d", i+1),
			name, companyRefs[i%len(companyRefs)], "procurement officer",
			false, 1, nil,
		})
	}

	_, err := inserter.CopyFromSlice(ctx, "cat_employees", columns, rows)
	return err
}

func seedMaterials(ctx context.Context, inserter *postgres.BatchInserter, kind material.Kind, table string, count int) (int64, error) {
	categories := []string{"cement", "steel", "timber", "electrical", "plumbing"}
	units := []string{"kg", "pcs", "m", "t", "bag"}

	rows := make([][]any, 0, count)
	for i := 0; i < count; i++ {
		basePrice := decimal.NewFromInt(int64(50 + i*7)).Div(decimal.NewFromInt(10))

		// Every third material carries supplier quotes; the cheapest one
		// should win over the base price during reconciliation.
		var quotes []byte
		if i%3 == 0 {
			q := material.QuoteList{
				{QuoteID: id.New().String(), Price: basePrice.Mul(decimal.NewFromFloat(0.9)), SupplierName: "Northline Materials Ltd"},
				{QuoteID: id.New().String(), Price: basePrice.Mul(decimal.NewFromFloat(1.1)), SupplierName: "Crescent Trading FZE"},
			}
			b, err := json.Marshal(q)
			if err != nil {
				return 0, fmt.Errorf("marshal quotes: %w", err)
			}
			quotes = b
		}

		rows = append(rows, []any{
			id.New(), id.NewRef(kind.RefKind()), fmt.Sprintf("%s-%06d", kind.RefKind(), i+1),
			fmt.Sprintf("%s sample %d", kind, i+1),
			categories[i%len(categories)], units[i%len(units)], basePrice,
			"Northline Materials Ltd", "Generic Mills", i%10 != 9, quotes,
			false, 1, nil,
		})
	}

	return inserter.CopyFromSlice(ctx, table, materialColumns, rows)
}
