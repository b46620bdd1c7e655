// cmd/tools/catalog-loader/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"freezone-advisor/internal/catalog"
	"freezone-advisor/internal/common/config"
	"freezone-advisor/internal/common/database"
	"freezone-advisor/internal/common/openai"
	"freezone-advisor/internal/common/pinecone"
	"freezone-advisor/internal/matching"
	"freezone-advisor/internal/models"
)

const embedBatchSize = 50

func main() {
	loadCmd := flag.NewFlagSet("load", flag.ExitOnError)
	indexCmd := flag.NewFlagSet("index", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	loadPath := loadCmd.String("csv", "", "Path to catalog CSV (defaults to catalog.csv_path from config)")
	indexSkipVectors := indexCmd.Bool("skip-vectors", false, "Index Elasticsearch only, skip embeddings and Pinecone")
	validatePath := validateCmd.String("csv", "", "Path to catalog CSV (defaults to catalog.csv_path from config)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "load":
		loadCmd.Parse(os.Args[2:])
		if err := runLoad(*loadPath); err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}

	case "index":
		indexCmd.Parse(os.Args[2:])
		if err := runIndex(*indexSkipVectors); err != nil {
			fmt.Printf("Error indexing catalog: %v\n", err)
			os.Exit(1)
		}

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := runValidate(*validatePath); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog validation passed.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func help() {
	fmt.Println("Usage: catalog-loader <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  load      Parse the catalog CSV and replace the records in PostgreSQL")
	fmt.Println("  index     Embed stored records and push them to Pinecone and Elasticsearch")
	fmt.Println("  validate  Parse the CSV and report row statistics without writing anything")
	fmt.Println("  help      Show this message")
}

// runLoad parses the CSV, normalizes every row, and replaces the catalog
// table contents in one transaction.
func runLoad(csvPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if csvPath == "" {
		csvPath = cfg.Catalog.CSVPath
	}

	records, skipped, err := parseAndNormalize(csvPath)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %d records (%d rows skipped)\n", len(records), skipped)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := catalog.NewStore(pg.DB).Replace(ctx, records); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	fmt.Printf("Loaded %d records into PostgreSQL\n", len(records))
	return nil
}

// runIndex reads the stored catalog, embeds each record's retrieval text,
// upserts the vectors to Pinecone, and refreshes the Elasticsearch index.
func runIndex(skipVectors bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	records, err := catalog.NewStore(pg.DB).All(ctx)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("catalog is empty, run 'catalog-loader load' first")
	}

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return fmt.Errorf("connect elasticsearch: %w", err)
	}
	searchIndex := catalog.NewSearchIndex(esClient.Client, cfg.Catalog.SearchIndex)
	if err := searchIndex.IndexRecords(ctx, records); err != nil {
		return fmt.Errorf("index elasticsearch: %w", err)
	}
	fmt.Printf("Indexed %d records into Elasticsearch index %q\n", len(records), cfg.Catalog.SearchIndex)

	if skipVectors {
		return nil
	}

	embedder := openai.NewClient(cfg.Integrations.OpenAI.APIKey, openai.Options{
		BaseURL:        cfg.Integrations.OpenAI.BaseURL,
		EmbeddingModel: cfg.Integrations.OpenAI.EmbeddingModel,
		Timeout:        time.Duration(cfg.Integrations.OpenAI.Timeout) * time.Millisecond,
	})
	vectorIndex := pinecone.NewClient(
		cfg.Integrations.Pinecone.IndexHost,
		cfg.Integrations.Pinecone.APIKey,
		cfg.Integrations.Pinecone.Namespace,
		time.Duration(cfg.Integrations.Pinecone.Timeout)*time.Millisecond,
	)

	upserted := 0
	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Description()
		}

		embeddings, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch starting at %d: %w", start, err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedding count mismatch: got %d for %d records", len(embeddings), len(batch))
		}

		vectors := make([]pinecone.Vector, len(batch))
		for i := range batch {
			vectors[i] = pinecone.Vector{
				ID:       batch[i].ID,
				Values:   embeddings[i],
				Metadata: batch[i],
			}
		}

		n, err := vectorIndex.Upsert(ctx, vectors)
		if err != nil {
			return fmt.Errorf("upsert batch starting at %d: %w", start, err)
		}
		upserted += n
	}

	fmt.Printf("Upserted %d vectors into Pinecone namespace %q\n", upserted, cfg.Integrations.Pinecone.Namespace)
	return nil
}

// runValidate parses and normalizes the CSV without touching any store.
func runValidate(csvPath string) error {
	if csvPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		csvPath = cfg.Catalog.CSVPath
	}

	records, skipped, err := parseAndNormalize(csvPath)
	if err != nil {
		return err
	}

	zeroCost := 0
	zeroVisas := 0
	for _, rec := range records {
		if rec.SetupCost == 0 {
			zeroCost++
		}
		if rec.MaxVisaAllocation == 0 {
			zeroVisas++
		}
	}

	fmt.Printf("Rows: %d usable, %d skipped\n", len(records), skipped)
	fmt.Printf("Records with zero setup cost: %d\n", zeroCost)
	fmt.Printf("Records with zero visa allocation: %d\n", zeroVisas)
	return nil
}

func parseAndNormalize(csvPath string) ([]models.FreezoneRecord, int, error) {
	if csvPath == "" {
		return nil, 0, fmt.Errorf("no CSV path given and catalog.csv_path is empty")
	}

	raws, err := catalog.ReadCSV(csvPath)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", csvPath, err)
	}

	records := make([]models.FreezoneRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, ok := matching.Normalize(raw)
		if !ok {
			skipped++
			continue
		}
		rec.ID = slugify(rec.FreezoneName + " " + rec.PackageName)
		records = append(records, *rec)
	}
	return records, skipped, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
