package main

import (
	"encoding/json"
	"flag"
	"os"

	gpmapi "latticegpm/pkg/latticegpm"
)

func loadRunRequestFromConfig(path string) (gpmapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gpmapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return gpmapi.RunRequest{}, err
	}

	var req gpmapi.RunRequest
	if v, ok := asInt(raw["length"]); ok {
		req.Length = v
	}
	if v, ok := asFloat64(raw["temperature"]); ok {
		req.Temperature = v
	}
	if v, ok := asFloat64(raw["stability_max"]); ok {
		req.StabilityMax = v
	}
	if v, ok := asInt(raw["max_attempts"]); ok {
		req.MaxAttempts = v
	}
	if v, ok := asString(raw["alphabet"]); ok {
		req.Alphabet = v
	}
	if v, ok := asString(raw["energy_model"]); ok {
		req.EnergyModel = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		req.Workers = v
	}
	if v, ok := asString(raw["phenotype"]); ok {
		req.PhenotypeKind = v
	}
	if v, ok := asInt(raw["max_genotypes"]); ok {
		req.MaxGenotypes = v
	}
	return req, nil
}

// mergeSearchRequest resolves each field as: explicit command-line flag,
// then config file value, then the flag's default.
func mergeSearchRequest(cfg, flags gpmapi.SearchRequest, fs *flag.FlagSet) gpmapi.SearchRequest {
	set := visitedFlags(fs)
	out := flags
	if !set["length"] && cfg.Length != 0 {
		out.Length = cfg.Length
	}
	if !set["temperature"] && cfg.Temperature != 0 {
		out.Temperature = cfg.Temperature
	}
	if !set["stability-max"] && cfg.StabilityMax != 0 {
		out.StabilityMax = cfg.StabilityMax
	}
	if !set["max-attempts"] && cfg.MaxAttempts != 0 {
		out.MaxAttempts = cfg.MaxAttempts
	}
	if !set["alphabet"] && cfg.Alphabet != "" {
		out.Alphabet = cfg.Alphabet
	}
	if !set["energy-model"] && cfg.EnergyModel != "" {
		out.EnergyModel = cfg.EnergyModel
	}
	if !set["seed"] && cfg.Seed != 0 {
		out.Seed = cfg.Seed
	}
	if !set["workers"] && cfg.Workers != 0 {
		out.Workers = cfg.Workers
	}
	return out
}

func mergeRunRequest(cfg, flags gpmapi.RunRequest, fs *flag.FlagSet) gpmapi.RunRequest {
	set := visitedFlags(fs)
	out := flags
	out.SearchRequest = mergeSearchRequest(cfg.SearchRequest, flags.SearchRequest, fs)
	if !set["phenotype"] && cfg.PhenotypeKind != "" {
		out.PhenotypeKind = cfg.PhenotypeKind
	}
	if !set["max-genotypes"] && cfg.MaxGenotypes != 0 {
		out.MaxGenotypes = cfg.MaxGenotypes
	}
	return out
}

func visitedFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
