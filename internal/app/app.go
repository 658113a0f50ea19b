package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ShiftEvidence/internal/config"
	"ShiftEvidence/internal/infrastructure/scheduler"
	"ShiftEvidence/internal/infrastructure/storage"
	"ShiftEvidence/internal/infrastructure/telegram"
	"ShiftEvidence/internal/logging"
	"ShiftEvidence/internal/packet"
	"ShiftEvidence/internal/ports"
	"ShiftEvidence/internal/shift"
	"ShiftEvidence/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	pipeline   *usecase.Pipeline
	request    usecase.RunRequest
	corpusDB   *sql.DB
	analysisDB *sql.DB
}

// New validates configuration, connects both stores, and assembles the
// evidence pipeline. Misconfiguration fails here, before any scoring.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	registry := shift.Builtin()
	for _, custom := range cfg.Shifts {
		registry.Register(shift.WithDefaultWeights(custom))
	}

	resolved, err := registry.Resolve(cfg.Pipeline.Shift)
	if err != nil {
		return nil, fmt.Errorf("resolve shift (known: %v): %w", registry.IDs(), err)
	}

	corpusDB, err := storage.Open(cfg.CorpusStore.Driver, cfg.CorpusStore.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect corpus store: %w", err)
	}

	analysisDB, err := storage.Open(cfg.AnalysisStore.Driver, cfg.AnalysisStore.DSN)
	if err != nil {
		_ = corpusDB.Close()
		return nil, fmt.Errorf("connect analysis store: %w", err)
	}

	ledger := storage.NewEvidenceLedger(analysisDB, storage.BuilderFor(cfg.AnalysisStore.Driver))
	if cfg.AnalysisStore.Driver == storage.DriverSQLite {
		if err := ledger.EnsureSchema(ctx); err != nil {
			_ = corpusDB.Close()
			_ = analysisDB.Close()
			return nil, fmt.Errorf("bootstrap analysis schema: %w", err)
		}
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Corpus:   storage.NewCorpusRepository(corpusDB, storage.BuilderFor(cfg.CorpusStore.Driver)),
		Analysis: storage.NewAnalysisRepository(analysisDB, storage.BuilderFor(cfg.AnalysisStore.Driver)),
		Ledger:   ledger,
		Notifier: notifier,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	request := usecase.RunRequest{
		Shift:   resolved,
		Method:  cfg.Pipeline.Method,
		Version: cfg.Pipeline.Version,
		Params:  cfg.Pipeline.Selection.Params(),
		Notes:   cfg.Pipeline.Notes,
		DryRun:  cfg.Pipeline.DryRun,
	}
	if err := request.Validate(); err != nil {
		_ = corpusDB.Close()
		_ = analysisDB.Close()
		return nil, fmt.Errorf("validate run request: %w", err)
	}

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		pipeline:   pipeline,
		request:    request,
		corpusDB:   corpusDB,
		analysisDB: analysisDB,
	}, nil
}

// Run executes one evidence run, or keeps running on the configured
// interval when the scheduler is enabled.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Scheduler.Enabled {
		return a.runScheduled(ctx)
	}
	return a.runOnce(ctx)
}

// Close releases both store handles.
func (a *Application) Close() {
	if a.corpusDB != nil {
		_ = a.corpusDB.Close()
	}
	if a.analysisDB != nil {
		_ = a.analysisDB.Close()
	}
}

func (a *Application) runOnce(ctx context.Context) error {
	result, err := a.pipeline.Execute(ctx, a.request)
	if err != nil {
		return fmt.Errorf("execute evidence run: %w", err)
	}
	return a.writePacket(result)
}

func (a *Application) runScheduled(ctx context.Context) error {
	driver := scheduler.NewTickerScheduler(a.cfg.Scheduler.IntervalDuration())
	recurring := usecase.NewScheduler(driver, a.pipeline, a.request, a.logger.With("component", "scheduler"))

	if err := recurring.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() { _ = recurring.Stop(context.WithoutCancel(ctx)) }()

	<-ctx.Done()
	return nil
}

func (a *Application) writePacket(result *usecase.RunResult) error {
	if a.cfg.Packet.OutputJSON == "" && a.cfg.Packet.OutputMarkdown == "" {
		return nil
	}

	payload := packet.Build(result.Run, result.Candidates, result.Selected,
		result.PhaseTotals, result.FullTextTotals)

	if a.cfg.Packet.OutputJSON != "" {
		if err := packet.WriteJSON(a.cfg.Packet.OutputJSON, payload); err != nil {
			return fmt.Errorf("write packet: %w", err)
		}
		a.logger.Info("packet payload written", "path", a.cfg.Packet.OutputJSON)
	}
	if a.cfg.Packet.OutputMarkdown != "" {
		if err := packet.WriteMarkdown(a.cfg.Packet.OutputMarkdown, payload); err != nil {
			return fmt.Errorf("write brief: %w", err)
		}
		a.logger.Info("research brief written", "path", a.cfg.Packet.OutputMarkdown)
	}
	return nil
}
