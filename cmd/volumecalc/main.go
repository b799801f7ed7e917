// Package main computes volume summaries from local YAML files, without a
// database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/hypertrophytoolbox/internal/config"
	"github.com/2beens/hypertrophytoolbox/internal/logging"
	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
	"github.com/2beens/hypertrophytoolbox/internal/training/volume"
	"github.com/2beens/hypertrophytoolbox/pkg"
)

func main() {
	catalogPath := flag.String("catalog", "./catalog.yaml", "path to the exercise catalog YAML file")
	entriesPath := flag.String("entries", "./entries.yaml", "path to the plan / log entries YAML file")
	configPath := flag.String("config", "", "optional TOML config file with weights and thresholds")
	env := flag.String("env", "development", "config section [dev | development | prod | production]")
	kind := flag.String("kind", "summary", "output [summary | sessions | categories | isolated | csv]")
	source := flag.String("source", "plan", "entries source [plan | log]")
	method := flag.String("method", "Total", "aggregation method [Total | Average | Max]")
	routine := flag.String("routine", "", "only this routine")
	exercise := flag.String("exercise", "", "only this exercise")
	from := flag.String("from", "", "log only: performed at or after (2006-01-02 or RFC3339)")
	to := flag.String("to", "", "log only: performed at or before (2006-01-02 or RFC3339)")
	all := flag.Bool("all", false, "include all muscle groups, even with zero volume")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		ServiceName: "volumecalc",
		LogLevel:    *logLevel,
	})
	// stdout is for the result
	log.SetOutput(os.Stderr)

	for _, path := range []string{*catalogPath, *entriesPath} {
		exists, err := pkg.PathExists(path, false)
		if err != nil {
			log.Fatalf("check %s: %s", path, err)
		}
		if !exists {
			log.Fatalf("file not found: %s", path)
		}
	}

	weights := volume.DefaultWeights()
	classifier, err := volume.NewClassifier(volume.DefaultThresholds())
	if err != nil {
		log.Fatalf("default classifier: %s", err)
	}
	if *configPath != "" {
		cfg, err := config.Load(*env, *configPath)
		if err != nil {
			log.Fatalf("load config: %s", err)
		}
		weights, classifier, err = volume.FromConfig(cfg.Volume)
		if err != nil {
			log.Fatalf("volume settings: %s", err)
		}
	}

	catalogStore, err := catalog.LoadYAML(*catalogPath)
	if err != nil {
		log.Fatalf("load catalog: %s", err)
	}
	entryStore, err := entries.LoadYAML(*entriesPath)
	if err != nil {
		log.Fatalf("load entries: %s", err)
	}

	rawFilter := map[string]string{}
	for key, value := range map[string]string{
		"routine":  *routine,
		"exercise": *exercise,
		"from":     *from,
		"to":       *to,
	} {
		if value != "" {
			rawFilter[key] = value
		}
	}
	filter, err := entries.ParseFilter(rawFilter)
	if err != nil {
		log.Fatalf("filter: %s", err)
	}

	params := volume.SummaryParams{
		Source:                 *source,
		Method:                 *method,
		Filter:                 filter,
		IncludeAllMuscleGroups: *all,
	}
	service := volume.NewService(entryStore, catalogStore, classifier, weights, nil)

	if err := run(context.Background(), service, *kind, params); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, service *volume.Service, kind string, params volume.SummaryParams) error {
	var (
		result any
		diag   volume.Diagnostics
	)

	switch kind {
	case "summary":
		summary, err := service.ComputeVolumeSummary(ctx, params)
		if err != nil {
			return err
		}
		result, diag = summary, summary.Diagnostics
	case "sessions":
		summary, err := service.ComputeSessionSummary(ctx, params)
		if err != nil {
			return err
		}
		result, diag = summary, summary.Diagnostics
	case "categories":
		summary, err := service.ComputeCategorySummary(ctx, params)
		if err != nil {
			return err
		}
		result, diag = summary, summary.Diagnostics
	case "isolated":
		summary, err := service.ComputeIsolatedSummary(ctx, params)
		if err != nil {
			return err
		}
		result, diag = summary, summary.Diagnostics
	case "csv":
		export, exportDiag, err := service.Export(ctx, params)
		if err != nil {
			return err
		}
		logWarnings(exportDiag)
		return export.WriteCSV(os.Stdout)
	default:
		return fmt.Errorf("unknown kind: %s", kind)
	}

	logWarnings(diag)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func logWarnings(diag volume.Diagnostics) {
	for _, w := range diag.Warnings {
		log.Warnln(w)
	}
}
