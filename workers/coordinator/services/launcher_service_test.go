package services

import (
	"context"
	"errors"
	"testing"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/stretchr/testify/mock"
)

type MockPageOpener struct {
	mock.Mock
}

func (m *MockPageOpener) Open(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

func (m *MockPageOpener) Release(target string) {
	m.Called(target)
}

type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, target string, payload shared.PostData) (DeliveryResult, error) {
	args := m.Called(ctx, target, payload)
	return args.Get(0).(DeliveryResult), args.Error(1)
}

func TestLaunchSubmission_OpensThenDelivers(t *testing.T) {
	opener := new(MockPageOpener)
	deliverer := new(MockDeliverer)
	payload := shared.PostData{FetchURLStr: "http://img/a.png"}

	opener.On("Open", mock.Anything, "https://furbooru.org/images/new").Return("target-7", nil)
	opener.On("Release", "target-7").Once()
	deliverer.On("Deliver", mock.Anything, "target-7", payload).Return(DeliveryResult{Attempts: 2, Delivered: true}, nil)

	NewLauncherService(opener, deliverer).LaunchSubmission(context.TODO(), "https://furbooru.org/images/new", payload)

	opener.AssertExpectations(t)
	deliverer.AssertExpectations(t)
}

func TestLaunchSubmission_OpenFailureIsNotRetried(t *testing.T) {
	opener := new(MockPageOpener)
	deliverer := new(MockDeliverer)

	opener.On("Open", mock.Anything, mock.Anything).Return("", errors.New("browser gone")).Once()

	NewLauncherService(opener, deliverer).LaunchSubmission(context.TODO(), "https://furbooru.org/images/new", shared.PostData{})

	opener.AssertNumberOfCalls(t, "Open", 1)
	opener.AssertNotCalled(t, "Release", mock.Anything)
	deliverer.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)
}

func TestLaunchSubmission_DeliveryErrorIsSwallowed(t *testing.T) {
	opener := new(MockPageOpener)
	deliverer := new(MockDeliverer)

	opener.On("Open", mock.Anything, mock.Anything).Return("target-7", nil)
	opener.On("Release", "target-7").Once()
	deliverer.On("Deliver", mock.Anything, "target-7", mock.Anything).Return(DeliveryResult{Attempts: 1}, errors.New("fatal"))

	NewLauncherService(opener, deliverer).LaunchSubmission(context.TODO(), "https://furbooru.org/images/new", shared.PostData{})

	deliverer.AssertExpectations(t)
	opener.AssertExpectations(t)
}
