package common

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"resumeqa/internal/ai"
	"resumeqa/internal/cache"
	"resumeqa/internal/config"
	"resumeqa/internal/database"
	"resumeqa/internal/document"
	"resumeqa/internal/errors"
	"resumeqa/internal/nlp"
	"resumeqa/internal/observability"
	"resumeqa/internal/parser"
	"resumeqa/internal/resume"
	"resumeqa/internal/server"
	"resumeqa/internal/similarity"
	"resumeqa/internal/storage"
)

// Runtime holds the collaborators shared by every command.
type Runtime struct {
	Config    *config.Config
	Logger    *errors.Logger
	Service   *resume.Service
	Catalog   *storage.Catalog
	Extractor *document.Extractor
	Telemetry *observability.ObservabilityManager

	answer  *ai.Service
	cache   *cache.RedisCache
	history *database.History
	closers []func() error
}

// NewRuntime wires the pipeline from cfg. Vault secrets are applied first.
// The answerer, cache and history are optional: failures to reach them are
// logged and the pipeline runs without them.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *errors.Logger, version string) (*Runtime, error) {
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to apply vault secrets", err)
	}

	telemetry, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	rt := &Runtime{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telemetry,
		Extractor: document.NewExtractor(cfg.Document.MaxBytes),
	}

	store, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	rt.Catalog = storage.NewCatalog(store, rt.Extractor, cfg.Storage.Timeout, logger)
	rt.Catalog.Observe(telemetry.GetMetrics())

	analyzer, err := rt.newAnalyzer(ctx)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}

	opts := resume.Options{
		Catalog:     rt.Catalog,
		Parser:      parser.New(analyzer, SectionRules(cfg.NLP.Sections), logger),
		Scorer:      similarity.NewScorer(cfg.Similarity.Multiplier),
		Metrics:     telemetry.GetMetrics(),
		ContextMode: cfg.AI.QA.ContextMode,
		Container:   cfg.Storage.Container,
		Logger:      logger,
	}

	answerCfg := cfg.GetAnswerConfig()
	if answer, err := ai.NewService(ctx, &answerCfg, "answer", cfg.Prompts.Answer, logger); err != nil {
		logger.Warn("Question answering disabled", "error", err)
	} else {
		rt.answer = answer
		rt.closers = append(rt.closers, answer.Provider.Close)
		opts.Answerer = ai.NewAnswerer(answer, cfg.AI.QA)
	}

	if cfg.Cache.Enabled {
		if c, err := cache.NewRedisCache(ctx, cfg.Cache, logger); err != nil {
			logger.Warn("Parse cache disabled", "error", err)
		} else {
			rt.cache = c
			rt.closers = append(rt.closers, c.Close)
			opts.Cache = c
		}
	}

	if cfg.Database.Enabled {
		if h, err := database.Open(ctx, cfg.Database, logger); err != nil {
			logger.Warn("Parse history disabled", "error", err)
		} else {
			rt.closers = append(rt.closers, h.Close)
			opts.History = h
			rt.history = h
		}
	}

	rt.Service = resume.NewService(opts)
	return rt, nil
}

func (rt *Runtime) newAnalyzer(ctx context.Context) (nlp.Analyzer, error) {
	cfg := rt.Config
	if cfg.NLP.Provider != "gemini" {
		return nlp.NewRuleAnalyzer(nlp.RuleOptions{
			ExtraPlaces:        cfg.NLP.ExtraPlaces,
			ExtraOrgSuffixes:   cfg.NLP.ExtraOrgSuffixes,
			ExtraOrganizations: cfg.NLP.ExtraOrganizations,
		}), nil
	}

	entitiesCfg := cfg.GetEntitiesConfig()
	svc, err := ai.NewService(ctx, &entitiesCfg, "entities", cfg.Prompts.Entities, rt.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create entity recognition service: %w", err)
	}
	rt.closers = append(rt.closers, svc.Provider.Close)
	return ai.NewEntityAnalyzer(svc), nil
}

// SectionRules overlays configured heading keywords on the default
// sections. Unknown labels are ignored so the label set stays fixed.
func SectionRules(overrides []config.SectionConfig) []parser.SectionRule {
	rules := parser.DefaultSectionRules()
	for _, o := range overrides {
		if len(o.Keywords) == 0 {
			continue
		}
		for i := range rules {
			if strings.EqualFold(rules[i].Label, o.Label) {
				rules[i].Keywords = o.Keywords
			}
		}
	}
	return rules
}

// HealthChecks returns one probe per configured backing dependency.
func (rt *Runtime) HealthChecks() []server.HealthCheck {
	checks := []server.HealthCheck{{
		Name: "storage",
		Check: func(ctx context.Context) error {
			_, err := rt.Catalog.Store().List(ctx, rt.Config.Storage.Container)
			return err
		},
	}}
	if rt.cache != nil {
		checks = append(checks, server.HealthCheck{Name: "cache", Check: rt.cache.Ping})
	}
	if rt.history != nil {
		checks = append(checks, server.HealthCheck{Name: "history", Check: rt.history.Ping})
	}
	if rt.answer != nil {
		checks = append(checks, server.HealthCheck{
			Name: "ai",
			Check: func(ctx context.Context) error {
				info := rt.answer.GetModelInfo(ctx)
				if info == nil || !info.Available {
					msg := "model unavailable"
					if info != nil && info.Error != "" {
						msg = info.Error
					}
					return stderrors.New(msg)
				}
				return nil
			},
		})
	}
	return checks
}

// Close releases every client in reverse order of creation and flushes
// telemetry.
func (rt *Runtime) Close(ctx context.Context) {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.Logger.Warn("Failed to close client", "error", err)
		}
	}
	rt.closers = nil
	if err := rt.Telemetry.Shutdown(ctx); err != nil {
		rt.Logger.Warn("Failed to shut down telemetry", "error", err)
	}
}
