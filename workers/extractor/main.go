package main

import (
	"context"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Torvusil/Furadder/workers/extractor/config"
	"github.com/Torvusil/Furadder/workers/extractor/domain"
	"github.com/Torvusil/Furadder/workers/extractor/repositories"
	"github.com/Torvusil/Furadder/workers/extractor/services"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
	sharedRepositories "github.com/Torvusil/Furadder/workers/shared/repositories"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pageURL, err := url.Parse(cfg.PageURL)
	if err != nil {
		log.Fatalf("invalid page URL: %v", err)
	}
	contextID := cfg.ContextID
	if contextID == "" {
		contextID = domain.PageContextPrefix + uuid.NewString()
	}

	redisClient := sharedRepositories.NewRedisClient(cfg.RedisHost, cfg.RedisPort)
	bus := sharedRepositories.NewRedisBus(redisClient)
	activePages := sharedRepositories.NewActivePageRepository(redisClient)

	contentService := services.NewContentService(
		services.WithPageFetcher(repositories.NewPageFetcher(cfg.FetchTimeout)),
		services.WithPageURL(pageURL),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, initiating shutdown...", sig)
		cancel()
	}()

	if err := activePages.Publish(ctx, shared.ActivePage{ContextID: contextID, URL: pageURL.String()}); err != nil {
		log.Fatalf("failed to publish active page: %v", err)
	}
	defer func() {
		if err := activePages.Withdraw(context.Background(), contextID); err != nil {
			log.Printf("failed to withdraw active page: %v", err)
		}
	}()

	log.Printf("Content extractor for %s listening as %q", pageURL, contextID)
	if err := bus.Listen(ctx, contextID, contentService.HandleEnvelope); err != nil {
		log.Printf("Listener stopped: %v", err)
	}
	log.Println("Shutdown complete.")
}
