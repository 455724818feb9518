package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/wolfman30/clinic-booking/internal/booking"
	"github.com/wolfman30/clinic-booking/pkg/logging"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends envelopes to an SQS queue. It serves both as the outbox delivery handler and
// as a booking listener for backends without an outbox.
type SQSPublisher struct {
	client   sqsAPI
	queueURL string
	backend  string
	logger   *logging.Logger
	now      func() time.Time
}

// NewSQSPublisher creates a publisher. backend labels events published as a booking listener.
func NewSQSPublisher(client sqsAPI, queueURL, backend string, logger *logging.Logger) *SQSPublisher {
	if client == nil {
		panic("events: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("events: SQS queueURL cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SQSPublisher{client: client, queueURL: queueURL, backend: backend, logger: logger, now: time.Now}
}

// Publish sends one envelope. The event type travels as a message attribute for subscription filters.
func (p *SQSPublisher) Publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}
	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(env.EventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("events: failed to send SQS message: %w", err)
	}
	p.logger.Debug("event published", "event_id", env.EventID, "type", env.EventType, "message_id", aws.ToString(out.MessageId))
	return nil
}

// Handle publishes an outbox row.
func (p *SQSPublisher) Handle(ctx context.Context, entry OutboxEntry) error {
	return p.Publish(ctx, entry.Envelope())
}

// BookingAccepted publishes a booking.submitted event straight to the queue.
func (p *SQSPublisher) BookingAccepted(ctx context.Context, req booking.Request, result booking.Result) error {
	evt := NewBookingSubmitted(req, result.AppointmentID, p.backend, p.now())
	env, err := Seal(evt, req.PreferredSlotID, evt.SubmittedAt)
	if err != nil {
		return err
	}
	return p.Publish(ctx, env)
}

var (
	_ DeliveryHandler  = (*SQSPublisher)(nil)
	_ booking.Listener = (*SQSPublisher)(nil)
)
