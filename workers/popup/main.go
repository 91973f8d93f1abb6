package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	popupConfig "github.com/Torvusil/Furadder/workers/popup/config"
	"github.com/Torvusil/Furadder/workers/popup/handlers"
	"github.com/Torvusil/Furadder/workers/popup/repositories"
	"github.com/Torvusil/Furadder/workers/popup/services"
	sharedRepositories "github.com/Torvusil/Furadder/workers/shared/repositories"
)

func main() {
	_ = godotenv.Load()

	cfg, err := popupConfig.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, initiating shutdown...", sig)
		cancel()
	}()

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	// Repositories
	redisClient := sharedRepositories.NewRedisClient(cfg.RedisHost, cfg.RedisPort)
	bus := sharedRepositories.NewRedisBus(redisClient)
	activePages := sharedRepositories.NewActivePageRepository(redisClient)
	objects := repositories.NewS3Repository(awsCfg, cfg.AWSEndpointURL)

	presets, err := repositories.LoadPresets(ctx, cfg.PresetsPath, objects)
	if err != nil {
		log.Fatalf("Failed to load tag presets: %v", err)
	}

	var aliasTable *repositories.DynamoDBAliasTable
	if cfg.AliasTable != "" {
		dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.AWSEndpointURL != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			}
		})
		aliasTable = repositories.NewDynamoDBAliasTable(dynamoClient, cfg.AliasTable)
	}
	aliases, err := repositories.LoadAliases(ctx, cfg.AliasesPath, objects, aliasTable)
	if err != nil {
		log.Fatalf("Failed to load aliases: %v", err)
	}

	var coordinator services.CoordinatorClient
	if cfg.SubmitQueueURL != "" {
		sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
			if cfg.AWSEndpointURL != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			}
		})
		coordinator = repositories.NewSQSCoordinatorClient(sqsClient, cfg.SubmitQueueURL)
	} else {
		coordinator = repositories.NewBusCoordinatorClient(bus, cfg.CoordinatorContextID, cfg.SubmitTimeout)
	}

	// Services
	session := services.NewSession()
	warnings := services.NewWarningService(
		repositories.NewRepostRepository(cfg.BoardURL, redisClient, cfg.RepostCacheTTL),
		cfg.BoardURL,
	)
	orchestrator := services.NewOrchestrator(session,
		services.WithActivePages(activePages),
		services.WithMessenger(bus),
		services.WithAliases(aliases),
		services.WithWarnings(warnings),
		services.WithExtractTimeout(cfg.ExtractTimeout),
	)
	formService := services.NewFormService(session, presets, orchestrator)
	submissionService := services.NewSubmissionService(session, coordinator, cfg.SubmissionURL)

	router := mux.NewRouter()
	handlers.NewSessionHandler(session, orchestrator, formService, submissionService).Routes(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Control surface API starting on port %s (%d presets)", cfg.Port, len(presets.Names()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		// Opening the control surface extracts from whatever page is active.
		orchestrator.Refresh(gCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("Control surface stopped: %v", err)
	}
	log.Println("Shutdown complete.")
}

func loadAWSConfig(ctx context.Context, cfg *popupConfig.Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}
