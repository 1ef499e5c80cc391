package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	gpmapi "latticegpm/pkg/latticegpm"

	"latticegpm/internal/search"
	"latticegpm/internal/storage"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "search":
		return runSearch(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func addSearchFlags(fs *flag.FlagSet, req *gpmapi.SearchRequest) {
	fs.IntVar(&req.Length, "length", 0, "sequence length (required unless set in --config)")
	fs.Float64Var(&req.Temperature, "temperature", 1.0, "folding temperature")
	fs.Float64Var(&req.StabilityMax, "stability-max", 0, "maximum acceptable stability (lower is more stable)")
	fs.IntVar(&req.MaxAttempts, "max-attempts", 10000, "search attempt budget")
	fs.StringVar(&req.Alphabet, "alphabet", "hp", "sequence alphabet: hp|amino")
	fs.StringVar(&req.EnergyModel, "energy-model", "hp", "contact energy model: hp or a table name in the database")
	fs.Int64Var(&req.Seed, "seed", 0, "random seed (0 means time-based)")
	fs.IntVar(&req.Workers, "workers", 1, "parallel workers")
}

func runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	var req gpmapi.SearchRequest
	addSearchFlags(fs, &req)
	configPath := fs.String("config", "", "JSON config file; explicit flags override it")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "latticegpm.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath != "" {
		full, err := loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = mergeSearchRequest(full.SearchRequest, req, fs)
	}

	client, err := gpmapi.New(ctx, gpmapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Search(ctx, req)
	if err != nil {
		var exhausted *search.ExhaustedError
		if errors.As(err, &exhausted) {
			return fmt.Errorf("%w\nrelax --stability-max or raise --max-attempts", err)
		}
		return err
	}

	fmt.Printf("endpoint1=%s stability=%.4f\n", summary.Endpoint1, summary.Stability1)
	fmt.Printf("endpoint2=%s stability=%.4f\n", summary.Endpoint2, summary.Stability2)
	fmt.Printf("attempts=%s\n", humanize.Comma(int64(summary.Attempts)))
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var req gpmapi.RunRequest
	addSearchFlags(fs, &req.SearchRequest)
	fs.StringVar(&req.PhenotypeKind, "phenotype", "stability", "phenotype kind: stability|fraction_folded|fitness")
	fs.IntVar(&req.MaxGenotypes, "max-genotypes", 0, "genotype capacity bound (0 for default)")
	configPath := fs.String("config", "", "JSON config file; explicit flags override it")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "latticegpm.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath != "" {
		full, err := loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = mergeRunRequest(full, req, fs)
	}

	client, err := gpmapi.New(ctx, gpmapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		var exhausted *search.ExhaustedError
		if errors.As(err, &exhausted) {
			return fmt.Errorf("%w\nrelax --stability-max or raise --max-attempts", err)
		}
		return err
	}

	fmt.Printf("run_id=%s\n", summary.RunID)
	fmt.Printf("endpoints=%s,%s\n", summary.Endpoint1, summary.Endpoint2)
	fmt.Printf("genotypes=%s phenotype=%s\n", humanize.Comma(int64(summary.GenotypeCount)), summary.PhenotypeKind)
	fmt.Printf("attempts=%s map_id=%s\n", humanize.Comma(int64(summary.Attempts)), summary.MapID)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit runs as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "latticegpm.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := gpmapi.New(ctx, gpmapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, item := range items {
		fmt.Printf("run_id=%s created=%s length=%d phenotype=%s attempts=%s map_id=%s\n",
			item.RunID,
			item.CreatedAtUTC,
			item.Length,
			item.PhenotypeKind,
			humanize.Comma(int64(item.Attempts)),
			item.MapID,
		)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	mapID := fs.String("map-id", "", "map id")
	latest := fs.Bool("latest", false, "export the most recent run's map")
	outPath := fs.String("out", "", "write JSON to file instead of stdout")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "latticegpm.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *mapID != "" && *latest {
		return errors.New("use either --map-id or --latest, not both")
	}
	if *mapID == "" && !*latest {
		return errors.New("export requires --map-id or --latest")
	}

	client, err := gpmapi.New(ctx, gpmapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	export, err := client.ExportMap(ctx, gpmapi.ExportRequest{MapID: *mapID, Latest: *latest})
	if err != nil {
		return err
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: latticegpmctl <search|run|runs|export> [flags]", msg)
}
