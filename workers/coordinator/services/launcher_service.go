package services

import (
	"context"
	"log"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

// PageOpener creates a new page and returns its context id. Release is
// called once the launcher is done talking to the page.
type PageOpener interface {
	Open(ctx context.Context, url string) (string, error)
	Release(target string)
}

type Deliverer interface {
	Deliver(ctx context.Context, target string, payload shared.PostData) (DeliveryResult, error)
}

type LauncherService struct {
	opener    PageOpener
	deliverer Deliverer
}

func NewLauncherService(opener PageOpener, deliverer Deliverer) *LauncherService {
	return &LauncherService{
		opener:    opener,
		deliverer: deliverer,
	}
}

// LaunchSubmission opens destinationURL and fills it with payload.
// Failing to open the page is logged and not retried.
func (s *LauncherService) LaunchSubmission(ctx context.Context, destinationURL string, payload shared.PostData) {
	targetID, err := s.opener.Open(ctx, destinationURL)
	if err != nil {
		log.Printf("Unable to open submission page %s: %v", destinationURL, err)
		return
	}
	log.Printf("Opened submission page %s as %s", destinationURL, targetID)
	defer s.opener.Release(targetID)

	if _, err := s.deliverer.Deliver(ctx, targetID, payload); err != nil {
		log.Printf("Unable to send submission message: %v", err)
	}
}
