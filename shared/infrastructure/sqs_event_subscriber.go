package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// EventHandler wraps the event handler interface with an identity
type EventHandler interface {
	HandlerID() string
	Handle(ctx context.Context, event *events.Event) error
}

// EventHandlerFunc creates a handler from a function
type EventHandlerFunc struct {
	id string
	fn func(ctx context.Context, event *events.Event) error
}

func NewEventHandlerFunc(id string, fn func(ctx context.Context, event *events.Event) error) *EventHandlerFunc {
	return &EventHandlerFunc{id: id, fn: fn}
}

func (h *EventHandlerFunc) HandlerID() string {
	return h.id
}

func (h *EventHandlerFunc) Handle(ctx context.Context, event *events.Event) error {
	return h.fn(ctx, event)
}

type sqsSubscriberOptions struct {
	workers             int
	maxNumberOfMessages int32
	waitTimeSeconds     int32
	sleepAfterError     time.Duration
}

// SQSSubscriberOption configures an SQSEventSubscriber
type SQSSubscriberOption func(*sqsSubscriberOptions)

func WithWorkers(workers int) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.workers = workers
	}
}

func WithWaitTimeSeconds(seconds int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.waitTimeSeconds = seconds
	}
}

// SQSEventSubscriber long-polls an SQS queue, decodes SNS-published event
// envelopes and dispatches them to a handler. Messages are deleted only after
// the handler returns without error.
type SQSEventSubscriber struct {
	client   *sqs.Client
	queueURL string
	handler  EventHandler
	options  *sqsSubscriberOptions
	cancel   context.CancelFunc
	running  atomic.Bool
}

// NewSQSEventSubscriber creates a new SQS event subscriber
func NewSQSEventSubscriber(client *sqs.Client, queueURL string, handler EventHandler, opts ...SQSSubscriberOption) *SQSEventSubscriber {
	options := &sqsSubscriberOptions{
		workers:             4,
		maxNumberOfMessages: 10,
		waitTimeSeconds:     20,
		sleepAfterError:     time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &SQSEventSubscriber{
		client:   client,
		queueURL: queueURL,
		handler:  handler,
		options:  options,
	}
}

// Start begins polling. It blocks until the context is cancelled or Stop is
// called.
func (s *SQSEventSubscriber) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("subscriber already running")
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	msgs := make(chan sqsMessage)
	gr, ctx := errgroup.WithContext(ctx)

	gr.Go(func() error {
		defer close(msgs)
		return s.poll(ctx, msgs)
	})

	for i := 0; i < s.options.workers; i++ {
		gr.Go(func() error {
			for msg := range msgs {
				s.dispatch(ctx, msg)
			}
			return nil
		})
	}

	if err := gr.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Stop cancels the polling loop
func (s *SQSEventSubscriber) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

type sqsMessage struct {
	receiptHandle *string
	event         *events.Event
}

func (s *SQSEventSubscriber) poll(ctx context.Context, out chan<- sqsMessage) error {
	for {
		res, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.queueURL),
			MaxNumberOfMessages: s.options.maxNumberOfMessages,
			WaitTimeSeconds:     s.options.waitTimeSeconds,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("sqs receive failed", "queue", s.queueURL, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.options.sleepAfterError):
			}
			continue
		}

		for _, msg := range res.Messages {
			event, err := decodeEvent([]byte(aws.ToString(msg.Body)))
			if err != nil {
				slog.Error("dropping undecodable sqs message",
					"queue", s.queueURL,
					"message_id", aws.ToString(msg.MessageId),
					"error", err,
				)
				s.delete(ctx, msg.ReceiptHandle)
				continue
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- sqsMessage{receiptHandle: msg.ReceiptHandle, event: event}:
			}
		}
	}
}

func (s *SQSEventSubscriber) dispatch(ctx context.Context, msg sqsMessage) {
	if err := s.handler.Handle(ctx, msg.event); err != nil {
		// Leave the message in the queue; SQS redelivers after the
		// visibility timeout.
		slog.Error("event handler failed",
			"handler", s.handler.HandlerID(),
			"topic", msg.event.Topic,
			"error", err,
		)
		return
	}
	s.delete(ctx, msg.receiptHandle)
}

func (s *SQSEventSubscriber) delete(ctx context.Context, receiptHandle *string) {
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		slog.Error("sqs delete failed", "queue", s.queueURL, "error", err)
	}
}

// decodeEvent reconstructs an events.Event from the snsMessage envelope
// written by SNSEventPublisher (raw message delivery assumed).
func decodeEvent(body []byte) (*events.Event, error) {
	var msg snsMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal sns envelope")
	}

	topic, err := events.NewTopic(msg.Topic)
	if err != nil {
		return nil, err
	}

	return &events.Event{
		ID:        models.ID(msg.ID),
		Topic:     topic,
		EventType: msg.Topic,
		Data:      msg.Payload,
		Metadata:  msg.Metadata,
		Timestamp: msg.Timestamp,
	}, nil
}
