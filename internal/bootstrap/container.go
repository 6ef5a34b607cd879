package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	goredis "github.com/redis/go-redis/v9"

	"credit-assess-be/internal/config"
	"credit-assess-be/internal/controller"
	"credit-assess-be/internal/pkg/logger"
	"credit-assess-be/internal/repository/contract"
	"credit-assess-be/internal/repository/memory"
	redisrepo "credit-assess-be/internal/repository/redis"
	"credit-assess-be/internal/service"
	"credit-assess-be/pkg/agent"
	"credit-assess-be/pkg/llm/factory"
)

type Container struct {
	// Controllers
	AssessmentController controller.IAssessmentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	SysLogger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	agentLogger := initAgentLogger()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Session Store
	var sessionRepo contract.ISessionRepository
	if cfg.Session.Backend == "redis" {
		opt, err := goredis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &goredis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := goredis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionRepo = redisrepo.NewSessionRepository(rdb, cfg.Session.TTL)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.PurgeInterval)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 5. Agent Collaborators
	narrativeAgent := agent.NewRiskNarrativeAgent(llmProvider, agentLogger)
	scoringAgent := agent.NewRiskScoringAgent(llmProvider, agentLogger)
	feedbackAgent := agent.NewFeedbackAgent(llmProvider, agentLogger)
	creditNoteAgent := agent.NewCreditNoteAgent(llmProvider, agentLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.AuditTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.AuditTopic, sysLogger)

	assessmentService := service.NewAssessmentService(
		sessionRepo,
		narrativeAgent,
		scoringAgent,
		feedbackAgent,
		creditNoteAgent,
		publisherService,
		sysLogger,
		cfg.Ai.AgentTimeout,
	)

	// 7. Controllers
	return &Container{
		AssessmentController: controller.NewAssessmentController(assessmentService, cfg.Session.TokenTTL),
		ConsumerService:      consumerService,
		SysLogger:            sysLogger,
	}
}

func initAgentLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_agent.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-AGENT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
