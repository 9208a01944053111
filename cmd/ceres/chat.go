package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sahayata-hq/ceres/pkg/audit"
	"sahayata-hq/ceres/pkg/config"
	"sahayata-hq/ceres/pkg/dialogue"
	"sahayata-hq/ceres/pkg/dialogue/store"
	"sahayata-hq/ceres/pkg/extract"
	"sahayata-hq/ceres/pkg/inference"
	"sahayata-hq/ceres/pkg/registry"
	"sahayata-hq/ceres/pkg/scheme/compiler"
	"sahayata-hq/ceres/pkg/telemetry/metrics"
)

var chatFlags struct {
	scheme string
	resume string
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive eligibility conversation",
	Long: `Run an interactive conversation that collects applicant facts one
question at a time and delivers the eligibility verdict.

With conversation persistence configured, a dropped session can be
resumed by id.

Examples:
  # Start a conversation for one scheme
  ceres chat --scheme pm_kisan

  # Resume a persisted conversation
  ceres chat --scheme pm_kisan --resume 4f7c9a12-...`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatFlags.scheme, "scheme", "", "scheme id to check (required)")
	chatCmd.Flags().StringVar(&chatFlags.resume, "resume", "", "conversation id to resume")
	chatCmd.MarkFlagRequired("scheme")
}

func runChat(cmd *cobra.Command, args []string) error {
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

	program, ok := reg.Get(chatFlags.scheme)
	if !ok {
		return fmt.Errorf("scheme %q not found (loaded: %v)", chatFlags.scheme, reg.SchemeIDs())
	}

	var convStore *store.Store
	if cfg.Conversation.StorePath != "" {
		convStore, err = store.New(cfg.Conversation.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open conversation store: %w", err)
		}
		defer convStore.Close()
	}

	ctx := context.Background()
	recorder := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	evaluator := inference.NewEvaluator(logger).WithMetrics(recorder)
	collector := dialogue.NewCollector(extract.NewRegistry(logger), evaluator, logger).
		WithMaxAttempts(cfg.Conversation.MaxAttempts).
		WithMetrics(recorder)

	var conv *dialogue.Conversation
	var prompt string
	if chatFlags.resume != "" {
		if convStore == nil {
			return fmt.Errorf("--resume requires conversation.store_path to be configured")
		}
		conv, err = convStore.Load(ctx, chatFlags.resume)
		if err != nil {
			return err
		}
		if conv == nil {
			return fmt.Errorf("conversation %q not found", chatFlags.resume)
		}
		prompt = "Welcome back! Let's continue."
	} else {
		conv, prompt = collector.Begin(program)
		fmt.Printf("(conversation id: %s)\n", conv.ID)
	}

	fmt.Println(prompt)

	scanner := bufio.NewScanner(os.Stdin)
	for !conv.Done() && scanner.Scan() {
		result := collector.Advance(program, conv, scanner.Text())
		fmt.Println(result.Prompt)

		if convStore != nil {
			if err := convStore.Save(ctx, conv); err != nil {
				logger.Error("failed to persist conversation", "conversation_id", conv.ID, "error", err)
			}
		}

		if result.Done && result.Verdict != nil && cfg.Audit.Enabled {
			if err := saveChatAudit(cfg, logger, conv, program, reg.Version()); err != nil {
				logger.Error("failed to record audit trail", "error", err)
			}
		}
	}
	return scanner.Err()
}

func saveChatAudit(cfg *config.Config, logger *slog.Logger, conv *dialogue.Conversation, program *compiler.CompiledProgram, registryVersion string) error {
	auditStore, err := audit.NewStore(&audit.StoreConfig{Path: cfg.Audit.Path}, logger)
	if err != nil {
		return err
	}
	defer auditStore.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := audit.NewRecord(program, conv.Verdict, conv.ID, registryVersion)
	return auditStore.Save(ctx, rec)
}
