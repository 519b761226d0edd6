// Package main is the interactive agent CLI. The conversation runs on
// stdin/stdout; everything observable goes to the audit trail.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-ai/agent-platform/internal/agent"
	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/internal/config"
	"github.com/custodia-ai/agent-platform/internal/llm"
	natsrelay "github.com/custodia-ai/agent-platform/internal/nats"
	"github.com/custodia-ai/agent-platform/internal/search"
	"github.com/custodia-ai/agent-platform/internal/sentiment"
	"github.com/custodia-ai/agent-platform/internal/store"
	"github.com/custodia-ai/agent-platform/internal/tool"
	"github.com/custodia-ai/agent-platform/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	if err := run(cfg, log); err != nil {
		log.Error("agent exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	auditLog, err := audit.Open(cfg.AuditLogPath, log)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer auditLog.Close()

	// The NATS relay is optional; the agent is fully functional on the
	// local log file alone.
	if cfg.NATSURL != "" {
		relay, err := natsrelay.Connect(natsrelay.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("NATS unavailable, audit relay disabled", zap.Error(err))
		} else {
			defer relay.Close()
			auditLog.AddSink(relay)
		}
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open user store: %w", err)
	}

	notify := func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}

	registry := tool.NewRegistry()
	if err := tool.RegisterUserTools(registry, st, notify); err != nil {
		return fmt.Errorf("failed to register user tools: %w", err)
	}
	if cfg.SerperAPIKey != "" {
		if err := tool.RegisterSearchTool(registry, search.NewSerperClient(cfg.SerperAPIKey), notify); err != nil {
			return fmt.Errorf("failed to register search tool: %w", err)
		}
	} else {
		log.Info("SERPER_API_KEY not set, web search disabled")
	}

	model, err := newModelClient(cfg)
	if err != nil {
		return err
	}
	log.Info("model client ready", zap.String("provider", model.Name()))

	annotator := sentiment.NewAnnotator(model, auditLog, log, cfg.SentimentTimeout)
	defer annotator.Wait()

	dispatcher := agent.NewDispatcher(agent.Config{
		Model:        model,
		Executor:     tool.NewExecutor(registry, auditLog, log, cfg.ToolTimeout),
		Registry:     registry,
		Annotator:    annotator,
		Audit:        auditLog,
		Logger:       log,
		MaxLoops:     cfg.MaxToolLoops,
		ModelTimeout: cfg.ModelTimeout,
	})

	session := dispatcher.NewSession()
	auditLog.Record(audit.KindSystem, "Agent session started.")
	log.Info("session started", zap.String("session_id", session.ID))

	fmt.Println("Support agent ready. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()
	for {
		fmt.Print("YOU: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			break
		}
		if err := agent.ValidateInput(input); err != nil {
			fmt.Printf("AGENT: %s\n", err)
			continue
		}

		fmt.Printf("AGENT: %s\n", session.Turn(ctx, input))
	}

	auditLog.Record(audit.KindSystem, "Agent session ended.")
	fmt.Println("Goodbye.")
	return scanner.Err()
}

// newModelClient picks the provider from config, falling back to
// whichever API key is present.
func newModelClient(cfg *config.Config) (llm.Client, error) {
	switch {
	case cfg.DefaultLLM == string(llm.ProviderAnthropic) && cfg.AnthropicAPIKey != "":
		return llm.NewClient(llm.ProviderAnthropic, cfg.AnthropicAPIKey)
	case cfg.DefaultLLM == string(llm.ProviderOpenAI) && cfg.OpenAIAPIKey != "":
		return llm.NewClient(llm.ProviderOpenAI, cfg.OpenAIAPIKey)
	case cfg.AnthropicAPIKey != "":
		return llm.NewClient(llm.ProviderAnthropic, cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		return llm.NewClient(llm.ProviderOpenAI, cfg.OpenAIAPIKey)
	default:
		return nil, errors.New("no model API key configured (set ANTHROPIC_API_KEY or OPENAI_API_KEY)")
	}
}
