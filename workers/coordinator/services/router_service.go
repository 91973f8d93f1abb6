package services

import (
	"context"
	"encoding/json"
	"log"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

type Launcher interface {
	LaunchSubmission(ctx context.Context, destinationURL string, payload shared.PostData)
}

type Spawner interface {
	Go(name string, fn func(ctx context.Context))
}

// RouterService is the coordinator's single entry point.
type RouterService struct {
	launcher Launcher
	tasks    Spawner
}

func NewRouterService(launcher Launcher, tasks Spawner) *RouterService {
	return &RouterService{
		launcher: launcher,
		tasks:    tasks,
	}
}

// Route answers immediately. A submission is launched in the background and
// its delivery outcome never reaches the caller. Unknown or malformed commands
// answer success=false; Route never fails.
func (s *RouterService) Route(cmd shared.Command) shared.RouteResponse {
	if cmd.Command != shared.CmdCreateSubmissionTab {
		log.Printf("Ignoring unknown command %q", cmd.Command)
		return shared.RouteResponse{Success: false}
	}

	var data shared.CreateSubmissionTabData
	if err := json.Unmarshal(cmd.Data, &data); err != nil {
		log.Printf("Malformed %s data: %v", cmd.Command, err)
		return shared.RouteResponse{Success: false}
	}
	if data.URLStr == "" {
		log.Printf("Ignoring %s without a destination URL", cmd.Command)
		return shared.RouteResponse{Success: false}
	}

	s.tasks.Go("submission "+data.URLStr, func(ctx context.Context) {
		s.launcher.LaunchSubmission(ctx, data.URLStr, data.PostData)
	})
	return shared.RouteResponse{Success: true}
}

// HandleEnvelope adapts Route to the message bus.
func (s *RouterService) HandleEnvelope(_ context.Context, env shared.Envelope) (shared.Reply, error) {
	resp := s.Route(shared.Command{Command: env.Command, Data: env.Data})
	return shared.Reply{Success: resp.Success}, nil
}
