package infrastructure

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/draftea/order-system/shared/events"
	"github.com/pkg/errors"
)

// SQSSubscriberAdapter wires an SQSEventSubscriber behind the
// events.Subscriber interface, owning the AWS client setup.
type SQSSubscriberAdapter struct {
	sqsSubscriber *SQSEventSubscriber
	queueURL      string
}

// NewSQSSubscriberAdapter creates a new SQS subscriber adapter
func NewSQSSubscriberAdapter(queueURL string) (*SQSSubscriberAdapter, error) {
	return &SQSSubscriberAdapter{queueURL: queueURL}, nil
}

type eventHandlerAdapter struct {
	handler events.EventHandler
}

func (a *eventHandlerAdapter) HandlerID() string {
	return "event-handler-adapter"
}

func (a *eventHandlerAdapter) Handle(ctx context.Context, event *events.Event) error {
	return a.handler.Handle(ctx, event)
}

// Subscribe implements events.Subscriber. It blocks until the context is
// cancelled.
func (s *SQSSubscriberAdapter) Subscribe(ctx context.Context, _ string, handler events.EventHandler) error {
	if s.sqsSubscriber != nil {
		return errors.New("subscriber is already running")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load AWS config")
	}

	s.sqsSubscriber = NewSQSEventSubscriber(
		sqs.NewFromConfig(cfg),
		s.queueURL,
		&eventHandlerAdapter{handler: handler},
	)

	return s.sqsSubscriber.Start(ctx)
}

// Close stops the subscriber
func (s *SQSSubscriberAdapter) Close() error {
	if s.sqsSubscriber != nil {
		s.sqsSubscriber.Stop()
	}
	return nil
}
