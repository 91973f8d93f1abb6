package services

import (
	"context"
	"encoding/json"
	"testing"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) LaunchSubmission(ctx context.Context, destinationURL string, payload shared.PostData) {
	m.Called(ctx, destinationURL, payload)
}

// inlineSpawner runs tasks synchronously so assertions can follow Route.
type inlineSpawner struct {
	spawned int
	run     bool
}

func (s *inlineSpawner) Go(name string, fn func(ctx context.Context)) {
	s.spawned++
	if s.run {
		fn(context.Background())
	}
}

func submissionCommand(t *testing.T, url string, post shared.PostData) shared.Command {
	data, err := json.Marshal(shared.CreateSubmissionTabData{URLStr: url, PostData: post})
	assert.NoError(t, err)
	return shared.Command{Command: shared.CmdCreateSubmissionTab, Data: data}
}

func TestRoute_CreateSubmissionTab(t *testing.T) {
	launcher := new(MockLauncher)
	spawner := &inlineSpawner{run: true}
	post := shared.PostData{FetchURLStr: "http://img/a.png", Tags: []string{"artist:a"}}

	launcher.On("LaunchSubmission", mock.Anything, "https://furbooru.org/images/new", post).Return()

	resp := NewRouterService(launcher, spawner).Route(submissionCommand(t, "https://furbooru.org/images/new", post))

	assert.True(t, resp.Success)
	assert.Equal(t, 1, spawner.spawned)
	launcher.AssertExpectations(t)
}

func TestRoute_DoesNotWaitForLaunch(t *testing.T) {
	launcher := new(MockLauncher)
	spawner := &inlineSpawner{run: false}

	resp := NewRouterService(launcher, spawner).Route(submissionCommand(t, "https://furbooru.org/images/new", shared.PostData{}))

	assert.True(t, resp.Success)
	assert.Equal(t, 1, spawner.spawned)
	launcher.AssertNotCalled(t, "LaunchSubmission", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoute_UnknownAndMalformedCommands(t *testing.T) {
	launcher := new(MockLauncher)
	spawner := &inlineSpawner{run: true}
	router := NewRouterService(launcher, spawner)

	assert.False(t, router.Route(shared.Command{Command: "deleteEverything"}).Success)
	assert.False(t, router.Route(shared.Command{Command: shared.CmdCreateSubmissionTab, Data: json.RawMessage(`[1,2]`)}).Success)
	assert.False(t, router.Route(submissionCommand(t, "", shared.PostData{})).Success)
	assert.Equal(t, 0, spawner.spawned)
}

func TestHandleEnvelope(t *testing.T) {
	launcher := new(MockLauncher)
	launcher.On("LaunchSubmission", mock.Anything, mock.Anything, mock.Anything).Return()
	router := NewRouterService(launcher, &inlineSpawner{run: true})

	cmd := submissionCommand(t, "https://furbooru.org/images/new", shared.PostData{})
	reply, err := router.HandleEnvelope(context.TODO(), shared.Envelope{ID: "1", Command: cmd.Command, Data: cmd.Data})
	assert.NoError(t, err)
	assert.True(t, reply.Success)

	reply, err = router.HandleEnvelope(context.TODO(), shared.Envelope{ID: "2", Command: "bogus"})
	assert.NoError(t, err)
	assert.False(t, reply.Success)
}
