package services

import (
	"context"
	"log"
	"strings"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

type CoordinatorClient interface {
	CreateSubmissionTab(ctx context.Context, data shared.CreateSubmissionTabData) (shared.RouteResponse, error)
}

type SubmissionService struct {
	session       *Session
	coordinator   CoordinatorClient
	submissionURL string
}

func NewSubmissionService(session *Session, coordinator CoordinatorClient, submissionURL string) *SubmissionService {
	return &SubmissionService{
		session:       session,
		coordinator:   coordinator,
		submissionURL: submissionURL,
	}
}

// Submit hands the current payload to the coordinator. The coordinator's
// answer only says whether it understood the command, not whether the
// submission page was filled.
func (s *SubmissionService) Submit(ctx context.Context) (shared.RouteResponse, error) {
	payload, err := s.session.SubmissionPayload()
	if err != nil {
		return shared.RouteResponse{}, err
	}

	resp, err := s.coordinator.CreateSubmissionTab(ctx, shared.CreateSubmissionTabData{
		URLStr:   s.submissionURL,
		PostData: payload,
	})
	if err != nil {
		log.Printf("Failed to send submission (%s): %v", shared.KindOf(err), err)
		return resp, err
	}
	log.Printf("Submission of %s sent to coordinator: success=%v", payload.FetchURLStr, resp.Success)
	return resp, nil
}

// NormalizeTags lower-cases and concatenates the groups, keeping the first
// occurrence of each tag. Empty tags are dropped.
func NormalizeTags(groups ...[]string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, group := range groups {
		for _, tag := range group {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}
