package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sahayata-hq/ceres/pkg/registry"
	"sahayata-hq/ceres/pkg/scheme/compiler"
)

var compileFlags struct {
	format string
}

var compileCmd = &cobra.Command{
	Use:   "compile [path]",
	Short: "Compile and lint scheme definitions",
	Long: `Compile scheme definition files into rule programs and report
warnings and errors without evaluating anything.

The path may be a single YAML file or a directory; directories are
scanned recursively for .yaml and .yml files. Each scheme compiles
independently, so one broken definition never hides problems in the
others.

Examples:
  # Compile all definitions in a directory
  ceres compile schemes/

  # Compile one file and dump the programs as JSON
  ceres compile schemes/pm-kisan.yaml --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVar(&compileFlags.format, "format", "text", "output format: text, json")
}

func runCompile(cmd *cobra.Command, args []string) error {
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

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %q: %w", path, err)
	}

	var result *registry.LoadResult
	if info.IsDir() {
		result, err = loader.LoadDir(path)
	} else {
		result, err = loader.LoadFile(path)
	}
	if err != nil {
		return err
	}

	if compileFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Programs); err != nil {
			return err
		}
	} else {
		for _, p := range result.Programs {
			fmt.Printf("%s  (%s)\n", p.SchemeID, p.SchemeName)
			fmt.Printf("  mode=%s logic=%s threshold=%.2f rules=%d exclusions=%d hash=%s\n",
				p.Mode, p.Logic, p.Threshold, len(p.Rules), len(p.Exclusions), p.ContentHash)
			for _, w := range p.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
			if low := p.LowConfidenceRules(); len(low) > 0 {
				for _, r := range low {
					fmt.Printf("  low-confidence: %s (%q)\n", r.ID, r.SourceText)
				}
			}
		}
	}

	for _, f := range result.Failures {
		fmt.Fprintf(os.Stderr, "error: %s", f.Path)
		if f.SchemeID != "" {
			fmt.Fprintf(os.Stderr, " (scheme %s)", f.SchemeID)
		}
		fmt.Fprintf(os.Stderr, ": %v\n", f.Err)
	}

	fmt.Printf("\n%d file(s), %d scheme(s) compiled, %d failure(s)\n",
		result.Files, len(result.Programs), len(result.Failures))

	if len(result.Failures) > 0 {
		return fmt.Errorf("%d definition(s) failed to compile", len(result.Failures))
	}
	return nil
}
