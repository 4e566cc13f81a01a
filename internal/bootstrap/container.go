package bootstrap

import (
	"fmt"

	"report-assistant-be/internal/config"
	"report-assistant-be/internal/controller"
	"report-assistant-be/internal/pkg/logger"
	"report-assistant-be/internal/repository/memory"
	"report-assistant-be/internal/service"
	"report-assistant-be/pkg/ingest"
	"report-assistant-be/pkg/llm"
	"report-assistant-be/pkg/llm/factory"
	"report-assistant-be/pkg/rag/prompt"
	"report-assistant-be/pkg/rag/response"
	"report-assistant-be/pkg/rag/summary"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	ReportController controller.IReportController

	// Services
	ReportService   service.IReportService
	ConsumerService service.IConsumerService

	SessionRepository *memory.SessionRepository
	ProviderName      string
	Logger            logger.ILogger

	auditLogger logger.ILogger
	pubSub      *gochannel.GoChannel
}

type Option func(*options)

type options struct {
	llmProvider llm.LLMProvider
	sysLogger   logger.ILogger
	auditLogger logger.ILogger
}

// WithLLMProvider skips the factory, e.g. to run against a scripted backend.
func WithLLMProvider(p llm.LLMProvider) Option {
	return func(o *options) { o.llmProvider = p }
}

func WithLoggers(sysLogger, auditLogger logger.ILogger) Option {
	return func(o *options) {
		o.sysLogger = sysLogger
		o.auditLogger = auditLogger
	}
}

func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// 1. Logging
	sysLogger := o.sysLogger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	auditLogger := o.auditLogger
	if auditLogger == nil {
		auditLogger = logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	providerName := cfg.Ai.LLMProvider
	llmProvider := o.llmProvider
	if llmProvider == nil {
		p, err := factory.NewLLMProvider(llmSettings(cfg.Ai))
		if err != nil {
			return nil, fmt.Errorf("initialize LLM provider: %w", err)
		}
		llmProvider = p
	} else {
		providerName = "custom"
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": providerName,
		"model":    cfg.Ai.LLMModel,
	})

	// 4. Report engine
	builder := prompt.NewBuilder(cfg.Context.DocumentSnippetChars, cfg.Context.SummarySnippetChars)
	engine := service.ReportEngine{
		Ingestor:   ingest.NewDispatcher(sysLogger),
		Summarizer: summary.NewSummarizer(llmProvider, builder, sysLogger),
		Responder:  response.NewGenerator(llmProvider, builder, cfg.Ai.ChatTemperature, sysLogger),
	}

	// 5. Services
	sessionRepo := memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
	publisherService := service.NewPublisherService(cfg.Session.EventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Session.EventsTopic, auditLogger)
	reportService := service.NewReportService(engine, sessionRepo, publisherService, sysLogger)

	return &Container{
		ReportController:  controller.NewReportController(reportService),
		ReportService:     reportService,
		ConsumerService:   consumerService,
		SessionRepository: sessionRepo,
		ProviderName:      providerName,
		Logger:            sysLogger,
		auditLogger:       auditLogger,
		pubSub:            pubSub,
	}, nil
}

// Close stops the event bus and flushes both loggers.
func (c *Container) Close() error {
	err := c.pubSub.Close()
	_ = c.auditLogger.Sync()
	_ = c.Logger.Sync()
	return err
}

func llmSettings(ai config.AIConfig) factory.Settings {
	s := factory.Settings{
		Provider: ai.LLMProvider,
		Model:    ai.LLMModel,
		Timeout:  ai.Timeout,
	}
	switch ai.LLMProvider {
	case factory.ProviderOpenAI:
		s.APIKey = ai.OpenAIAPIKey
		s.BaseURL = ai.OpenAIBaseURL
	case factory.ProviderOllama:
		s.BaseURL = ai.OllamaBaseURL
	case factory.ProviderHuggingFace:
		s.APIKey = ai.HuggingFaceAPIKey
		s.BaseURL = ai.HuggingFaceBaseURL
	}
	return s
}
