package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chromedp/chromedp"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	coordinatorConfig "github.com/Torvusil/Furadder/workers/coordinator/config"
	"github.com/Torvusil/Furadder/workers/coordinator/repositories"
	"github.com/Torvusil/Furadder/workers/coordinator/services"
	sharedRepositories "github.com/Torvusil/Furadder/workers/shared/repositories"
)

func main() {
	_ = godotenv.Load()

	cfg, err := coordinatorConfig.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	// Browser
	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if cfg.ChromeWSURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, cfg.ChromeWSURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()
	if err := chromedp.Run(browserCtx); err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}

	browserRepo := repositories.NewBrowserRepository(browserCtx)
	defer browserRepo.CloseAll()

	// Services
	tasks := services.NewTaskGroup(ctx)
	deliveryService := services.NewDeliveryService(browserRepo, cfg.Delivery)
	launcherService := services.NewLauncherService(browserRepo, deliveryService)
	routerService := services.NewRouterService(launcherService, tasks)

	bus := sharedRepositories.NewRedisBus(sharedRepositories.NewRedisClient(cfg.RedisHost, cfg.RedisPort))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Coordinator listening as %q", cfg.ContextID)
		return bus.Listen(gCtx, cfg.ContextID, routerService.HandleEnvelope)
	})

	if cfg.InputQueueURL != "" {
		sqsClient, err := newSQSClient(ctx, cfg)
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		commandService := services.NewCommandService(repositories.NewSQSRepository(sqsClient, cfg.InputQueueURL), routerService)
		g.Go(func() error {
			commandService.Start(gCtx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("Coordinator stopped: %v", err)
	}
	cancel()
	tasks.Wait()
}

func newSQSClient(ctx context.Context, cfg *coordinatorConfig.Config) (*sqs.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	}), nil
}
