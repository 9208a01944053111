package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sahayata-hq/ceres/pkg/audit"
	"sahayata-hq/ceres/pkg/config"
	"sahayata-hq/ceres/pkg/inference"
	"sahayata-hq/ceres/pkg/inference/explain"
	"sahayata-hq/ceres/pkg/registry"
	"sahayata-hq/ceres/pkg/scheme/compiler"
	"sahayata-hq/ceres/pkg/telemetry/metrics"
)

var checkFlags struct {
	scheme string
	facts  string
	all    bool
	format string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check eligibility from a facts file",
	Long: `Evaluate an applicant's facts against one scheme or all loaded
schemes and print the verdicts.

The facts file is a YAML map of field values, with an optional
family_members list:

  age: 45
  annual_income: 150000
  land_size_acres: 3
  family_members:
    - relation: wife
      age: 40
    - relation: son
      age: 10

Examples:
  # Check one scheme
  ceres check --scheme pm_kisan --facts applicant.yaml

  # Rank all schemes for this applicant
  ceres check --all --facts applicant.yaml --format json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkFlags.scheme, "scheme", "", "scheme id to check")
	checkCmd.Flags().StringVar(&checkFlags.facts, "facts", "", "applicant facts YAML file (required)")
	checkCmd.Flags().BoolVar(&checkFlags.all, "all", false, "evaluate every loaded scheme, ranked best-first")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
	checkCmd.MarkFlagRequired("facts")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFlags.scheme == "" && !checkFlags.all {
		return fmt.Errorf("either --scheme or --all is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	comp := compiler.New(compiler.Options{
		DefaultThreshold: cfg.Schemes.DefaultThreshold,
		DefaultMinorAge:  cfg.Schemes.DefaultMinorAge,
	}, logger)
	loader := registry.NewLoader(comp, logger)
	reg := registry.NewSchemeRegistry()
	if _, err := loader.ReloadInto(cfg.Schemes.Dir, reg); err != nil {
		return err
	}

	facts, err := loadFacts(checkFlags.facts)
	if err != nil {
		return err
	}

	evaluator := inference.NewEvaluator(logger).
		WithMetrics(metrics.NewCollector(&cfg.Telemetry.Metrics, nil))

	var verdicts []*inference.Verdict
	var overall []string
	if checkFlags.all {
		programs := reg.GetAll()
		verdicts = evaluator.EvaluateAll(programs, facts)
		for _, v := range verdicts {
			if p, ok := reg.Get(v.SchemeID); ok {
				explain.Annotate(p, v)
			}
		}
		overall = explain.Overall(verdicts)
	} else {
		program, ok := reg.Get(checkFlags.scheme)
		if !ok {
			return fmt.Errorf("scheme %q not found (loaded: %v)", checkFlags.scheme, reg.SchemeIDs())
		}
		verdict := evaluator.Evaluate(program, facts)
		explain.Annotate(program, verdict)
		verdicts = []*inference.Verdict{verdict}
	}

	if cfg.Audit.Enabled {
		if err := recordAudit(cfg, logger, reg, verdicts); err != nil {
			logger.Error("failed to record audit trail", "error", err)
		}
	}

	return printVerdicts(verdicts, overall, checkFlags.format)
}

// loadFacts reads an applicant facts YAML file.
func loadFacts(path string) (*inference.Facts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read facts file %q: %w", path, err)
	}

	var raw struct {
		Family []inference.FamilyMember `yaml:"family_members"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse facts file %q: %w", path, err)
	}
	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("cannot parse facts file %q: %w", path, err)
	}
	delete(values, "family_members")

	facts := inference.FactsFromMap(values)
	for _, m := range raw.Family {
		facts.AddFamilyMember(m.Relation, m.Age)
	}
	return facts, nil
}

func recordAudit(cfg *config.Config, logger *slog.Logger, reg *registry.SchemeRegistry, verdicts []*inference.Verdict) error {
	store, err := audit.NewStore(&audit.StoreConfig{Path: cfg.Audit.Path}, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, v := range verdicts {
		program, ok := reg.Get(v.SchemeID)
		if !ok {
			continue
		}
		rec := audit.NewRecord(program, v, "", reg.Version())
		if err := store.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func printVerdicts(verdicts []*inference.Verdict, overall []string, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Verdicts []*inference.Verdict `json:"verdicts"`
			Overall  []string             `json:"overall,omitempty"`
		}{verdicts, overall})
	}

	for _, v := range verdicts {
		fmt.Printf("%s  (%s)\n", v.SchemeID, v.SchemeName)
		fmt.Printf("  status=%s score=%.2f threshold=%.2f\n", v.Status, v.Score, v.Threshold)
		if len(v.MissingFields) > 0 {
			fmt.Printf("  missing: %v\n", v.MissingFields)
		}
		fmt.Printf("  %s\n", v.Explanation)
		for _, rec := range v.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		fmt.Println()
	}
	if len(overall) > 0 {
		fmt.Println("Overall:")
		for _, rec := range overall {
			fmt.Printf("  - %s\n", rec)
		}
	}
	return nil
}
