package latticegpm

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"latticegpm/internal/fold"
	"latticegpm/internal/gpmap"
	"latticegpm/internal/lattice"
	"latticegpm/internal/model"
	"latticegpm/internal/phenotype"
	"latticegpm/internal/search"
	"latticegpm/internal/seq"
	"latticegpm/internal/space"
	"latticegpm/internal/storage"
)

const defaultDBPath = "latticegpm.db"

type Options struct {
	StoreKind string
	DBPath    string
}

// Client wires the search, space and phenotype machinery over a store. The
// store doubles as the conformation database and persistent fold cache.
type Client struct {
	store storage.Store

	// Fitness converts fraction folded to fitness when a run requests the
	// fitness phenotype; nil means identity.
	Fitness phenotype.FitnessFunc

	// oracleOverride replaces oracle construction in tests.
	oracleOverride fold.Oracle
}

func New(ctx context.Context, opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

type SearchRequest struct {
	Length       int
	Temperature  float64
	StabilityMax float64
	MaxAttempts  int
	Alphabet     string
	EnergyModel  string
	Seed         int64
	Workers      int
}

type SearchSummary struct {
	Endpoint1  string
	Endpoint2  string
	Stability1 float64
	Stability2 float64
	Attempts   int
}

type RunRequest struct {
	SearchRequest
	PhenotypeKind string
	MaxGenotypes  int
}

type RunSummary struct {
	RunID         string
	Endpoint1     string
	Endpoint2     string
	Attempts      int
	GenotypeCount int
	MapID         string
	PhenotypeKind string
}

type RunItem struct {
	RunID         string
	CreatedAtUTC  string
	Length        int
	PhenotypeKind string
	Attempts      int
	MapID         string
}

type ExportRequest struct {
	MapID  string
	Latest bool
}

type MapExport struct {
	ID            string
	Length        int
	Alphabet      string
	Endpoint1     string
	Endpoint2     string
	Temperature   float64
	PhenotypeKind string
	Genotypes     []string
	Phenotypes    []float64
}

// Search finds two maximally divergent stable endpoint sequences.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchSummary, error) {
	oracle, alphabet, err := c.oracle(ctx, req)
	if err != nil {
		return SearchSummary{}, err
	}
	pair, err := c.searchPair(ctx, req, oracle, alphabet)
	if err != nil {
		return SearchSummary{}, err
	}
	return SearchSummary{
		Endpoint1:  pair.First,
		Endpoint2:  pair.Second,
		Stability1: pair.FirstStability,
		Stability2: pair.SecondStability,
		Attempts:   pair.Attempts,
	}, nil
}

// Run executes the full pipeline: endpoint search, mutational-space
// construction, phenotype mapping, and persistence of the resulting map
// and run record.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	kind, err := phenotype.ParseKind(req.PhenotypeKind)
	if err != nil {
		return RunSummary{}, err
	}

	oracle, alphabet, err := c.oracle(ctx, req.SearchRequest)
	if err != nil {
		return RunSummary{}, err
	}
	pair, err := c.searchPair(ctx, req.SearchRequest, oracle, alphabet)
	if err != nil {
		return RunSummary{}, err
	}

	sp, err := space.Build(pair.First, pair.Second, req.MaxGenotypes)
	if err != nil {
		return RunSummary{}, err
	}

	mapper := &phenotype.Mapper{
		Oracle:  oracle,
		Workers: req.Workers,
		Fitness: c.Fitness,
	}
	phenotypes, err := mapper.Map(ctx, sp, kind, req.Temperature)
	if err != nil {
		return RunSummary{}, err
	}

	built, err := gpmap.New(sp, kind, req.Temperature, phenotypes)
	if err != nil {
		return RunSummary{}, err
	}

	mapID := uuid.NewString()
	if err := c.store.SaveMap(ctx, built.Export(mapID)); err != nil {
		return RunSummary{}, err
	}

	runID := uuid.NewString()
	run := model.RunRecord{
		ID:            runID,
		CreatedAtUTC:  time.Now().UTC().Format(time.RFC3339Nano),
		Length:        req.Length,
		Alphabet:      string(alphabet),
		EnergyModel:   req.EnergyModel,
		Temperature:   req.Temperature,
		StabilityMax:  req.StabilityMax,
		MaxAttempts:   req.MaxAttempts,
		Attempts:      pair.Attempts,
		Seed:          req.Seed,
		PhenotypeKind: string(kind),
		Endpoint1:     pair.First,
		Endpoint2:     pair.Second,
		MapID:         mapID,
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:         runID,
		Endpoint1:     pair.First,
		Endpoint2:     pair.Second,
		Attempts:      pair.Attempts,
		GenotypeCount: sp.Size(),
		MapID:         mapID,
		PhenotypeKind: string(kind),
	}, nil
}

// Runs lists persisted runs, newest first.
func (c *Client) Runs(ctx context.Context, limit int) ([]RunItem, error) {
	records, err := c.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]RunItem, 0, len(records))
	for _, r := range records {
		items = append(items, RunItem{
			RunID:         r.ID,
			CreatedAtUTC:  r.CreatedAtUTC,
			Length:        r.Length,
			PhenotypeKind: r.PhenotypeKind,
			Attempts:      r.Attempts,
			MapID:         r.MapID,
		})
	}
	return items, nil
}

// ExportMap loads a persisted genotype-phenotype map, either by ID or the
// latest run's map.
func (c *Client) ExportMap(ctx context.Context, req ExportRequest) (MapExport, error) {
	mapID := req.MapID
	if req.Latest {
		runs, err := c.store.ListRuns(ctx, 1)
		if err != nil {
			return MapExport{}, err
		}
		if len(runs) == 0 {
			return MapExport{}, fmt.Errorf("no runs recorded")
		}
		mapID = runs[0].MapID
	}
	if mapID == "" {
		return MapExport{}, fmt.Errorf("map id is required: %w", seq.ErrInvalidArgument)
	}

	record, ok, err := c.store.GetMap(ctx, mapID)
	if err != nil {
		return MapExport{}, err
	}
	if !ok {
		return MapExport{}, fmt.Errorf("map %s not found", mapID)
	}
	return MapExport{
		ID:            record.ID,
		Length:        record.Length,
		Alphabet:      record.Alphabet,
		Endpoint1:     record.Endpoint1,
		Endpoint2:     record.Endpoint2,
		Temperature:   record.Temperature,
		PhenotypeKind: record.PhenotypeKind,
		Genotypes:     record.Genotypes,
		Phenotypes:    record.Phenotypes,
	}, nil
}

func (c *Client) searchPair(ctx context.Context, req SearchRequest, oracle fold.Oracle, alphabet seq.Alphabet) (search.Pair, error) {
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return search.Search(ctx, rng, oracle, search.Config{
		Length:       req.Length,
		Temperature:  req.Temperature,
		StabilityMax: req.StabilityMax,
		MaxAttempts:  req.MaxAttempts,
		Alphabet:     alphabet,
		Workers:      req.Workers,
	})
}

// oracle assembles the folding backend for a request: conformations from
// the store (enumerated and cached on first use), the requested energy
// model, and a persistent fold cache over the store.
func (c *Client) oracle(ctx context.Context, req SearchRequest) (fold.Oracle, seq.Alphabet, error) {
	alphabet, err := parseAlphabet(req.Alphabet)
	if err != nil {
		return nil, "", err
	}
	if c.oracleOverride != nil {
		return c.oracleOverride, alphabet, nil
	}

	table := lattice.HPEnergies
	switch req.EnergyModel {
	case "", "hp":
	default:
		record, ok, err := c.store.GetEnergies(ctx, req.EnergyModel)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", fmt.Errorf("energy table %q not in database", req.EnergyModel)
		}
		table = lattice.FromRecord(record)
	}

	set, ok, err := c.store.GetConformations(ctx, req.Length)
	if err != nil {
		return nil, "", err
	}
	conformations := set.Conformations
	if !ok {
		conformations, err = lattice.Enumerate(req.Length)
		if err != nil {
			return nil, "", err
		}
		err = c.store.SaveConformations(ctx, model.ConformationSet{
			Length:        req.Length,
			Conformations: conformations,
		})
		if err != nil {
			return nil, "", err
		}
	}

	oracle, err := lattice.NewOracle(req.Length, alphabet, conformations, table)
	if err != nil {
		return nil, "", err
	}
	return fold.NewStoreCache(oracle, c.store), alphabet, nil
}

func parseAlphabet(name string) (seq.Alphabet, error) {
	switch name {
	case "", "hp":
		return seq.HP, nil
	case "amino":
		return seq.Amino, nil
	default:
		return "", fmt.Errorf("unknown alphabet %q: %w", name, seq.ErrInvalidArgument)
	}
}
