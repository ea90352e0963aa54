// Package wire provides dependency injection for the dispatch engine.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"log"
	"log/slog"
	"os"
	"sync"

	amqpadapter "github.com/example/dispatch/internal/adapters/amqp"
	"github.com/example/dispatch/internal/adapters/sqlite"
	"github.com/example/dispatch/internal/app"
	"github.com/example/dispatch/internal/config"
	"github.com/example/dispatch/internal/db"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

var (
	conversationService primary.ConversationService
	presenceService     primary.PresenceService
	agentService        primary.AgentService
	overrideService     primary.OverrideService
	schedulerService    primary.SchedulerService
	once                sync.Once
)

// ConversationService returns the singleton ConversationService instance.
func ConversationService() primary.ConversationService {
	once.Do(initServices)
	return conversationService
}

// PresenceService returns the singleton PresenceService instance.
func PresenceService() primary.PresenceService {
	once.Do(initServices)
	return presenceService
}

// AgentService returns the singleton AgentService instance.
func AgentService() primary.AgentService {
	once.Do(initServices)
	return agentService
}

// OverrideService returns the singleton OverrideService instance.
func OverrideService() primary.OverrideService {
	once.Do(initServices)
	return overrideService
}

// SchedulerService returns the singleton SchedulerService instance.
func SchedulerService() primary.SchedulerService {
	once.Do(initServices)
	return schedulerService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to resolve working directory: %v", err)
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters
	store := sqlite.NewEventStore(database)
	agentRepo := sqlite.NewAgentRepository(database)
	conversationRepo := sqlite.NewConversationRepository(database)
	hierarchyRepo := sqlite.NewHierarchyRepository(database)

	var notifier *amqpadapter.Notifier
	if cfg.AMQPURL != "" {
		notifier, err = amqpadapter.New(cfg.AMQPURL, cfg.Exchange, slog.Default())
		if err != nil {
			log.Printf("notifications disabled: %v", err)
			notifier = nil
		}
	}

	// Cold-start projection rebuild: the event log is the source of
	// truth, everything else is derived from it here.
	projection := app.NewProjection()
	if err := projection.Rebuild(context.Background(), agentRepo, conversationRepo, store); err != nil {
		log.Fatalf("failed to rebuild projection: %v", err)
	}

	scheduler := app.NewSchedulerService(store, agentRepo, hierarchyRepo, notifierOrNil(notifier), projection, cfg.MaxAssignmentsPerAgent)
	schedulerService = scheduler

	conversationService = app.NewConversationService(conversationRepo, hierarchyRepo, store, projection, scheduler)
	presenceService = app.NewPresenceService(store, projection, scheduler)
	agentService = app.NewAgentService(agentRepo, hierarchyRepo, projection)
	overrideService = app.NewOverrideService(store, agentRepo, hierarchyRepo, notifierOrNil(notifier), projection, cfg.MaxAssignmentsPerAgent, scheduler)
}

// notifierOrNil avoids handing services a non-nil interface wrapping a
// nil adapter.
func notifierOrNil(n *amqpadapter.Notifier) secondary.Notifier {
	if n == nil {
		return nil
	}
	return n
}
