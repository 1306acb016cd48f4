package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ai-interview/internal/admin"
	"ai-interview/internal/assessment"
	"ai-interview/internal/config"
	"ai-interview/internal/engine"
	"ai-interview/internal/feedback"
	"ai-interview/internal/logger"
	"ai-interview/internal/metrics"
	"ai-interview/internal/provider"
	"ai-interview/internal/repository"
	"ai-interview/internal/resolver"
	"ai-interview/internal/storage"
	"ai-interview/internal/store"
	"ai-interview/internal/store/boltstore"
	"ai-interview/internal/store/mongostore"
	"ai-interview/internal/store/sqlitestore"
)

// app связывает конфигурацию, хранилище и сервисы для одной команды
type app struct {
	cfg      *config.AppConfig
	log      zerolog.Logger
	store    store.Store
	metrics  *metrics.Metrics
	admin    *admin.Service
	engine   *engine.Engine
	results  *storage.Results
	provider string
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openApp загружает конфигурацию, открывает хранилище и собирает сервисы
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := commandContext(cmd)

	if err := config.LoadEnvFile(cmd.Flag("env-file").Value.String()); err != nil {
		return nil, err
	}
	cfg := config.LoadAppConfig()
	if f := cmd.Flag("store"); f.Changed {
		cfg.Store.Driver = f.Value.String()
	}
	if f := cmd.Flag("db"); f.Changed {
		cfg.Store.Path = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// stdout остается под вывод команд
	log, err := logger.New(cfg.Log, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	p, err := provider.New(cfg.AI)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init AI provider: %w", err)
	}
	providerName := config.ProviderNone
	if cfg.AI.Enabled() {
		providerName = p.Name()
		log.Debug().Fields(cfg.AI.GetModelInfo()).Msg("AI provider configured")
	} else {
		log.Warn().Msg("no AI provider configured, feedback and assessments will be placeholders")
	}

	sets := repository.NewQuestionSets(st)
	settings := repository.NewSettings(st)
	sessions := repository.NewSessions(st)
	m := metrics.NewMetrics()

	adminService := admin.New(sets, settings, log)
	if _, err := adminService.EnsureDefaults(ctx); err != nil {
		st.Close()
		return nil, err
	}

	eng := engine.New(
		sessions,
		resolver.New(settings, sets),
		feedback.New(p, cfg.Interview.FeedbackTimeout, log, m),
		assessment.NewSynthesizer(p, cfg.Interview.AssessmentTimeout, log, m),
		log,
		m,
	)

	return &app{
		cfg:      cfg,
		log:      log,
		store:    st,
		metrics:  m,
		admin:    adminService,
		engine:   eng,
		results:  storage.NewResults(cfg.Interview.ResultsDir),
		provider: providerName,
	}, nil
}

func (a *app) Close() error {
	snapshot := a.metrics.GetSnapshot()
	a.log.Debug().
		Int64("sessions_created", snapshot.SessionsCreated).
		Int64("answers_accepted", snapshot.AnswersAccepted).
		Int64("api_calls", snapshot.APICallsTotal).
		Int64("api_calls_successful", snapshot.APICallsSuccessful).
		Int64("feedback_fallbacks", snapshot.FeedbackFallbacks).
		Int64("assessment_fallbacks", snapshot.AssessmentFallbacks).
		Msg("metrics")
	return a.store.Close()
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "bolt":
		s, err := boltstore.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := sqlitestore.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mongo":
		s, err := mongostore.Open(ctx, cfg.MongoURL, cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
