// Package pushservice formats e-commerce domain events into push
// notifications and forwards them to devices and topics through Firebase
// Cloud Messaging, returning structured per-recipient results.
package pushservice

import (
	"context"
	"errors"
	"log/slog"

	"firebase.google.com/go/v4/messaging"

	"github.com/cartloop/go-push-service/pkg/dispatch"
	"github.com/cartloop/go-push-service/pkg/notification"
)

// maxTokensPerBatch is the provider's per-call fan-out ceiling.
const maxTokensPerBatch = 500

// Sender orchestrates dispatch: it builds provider messages, invokes the
// messaging client, and folds every outcome into SendResult/BatchResult
// values. Delivery failures never surface as returned errors.
//
// A Sender holds only immutable configuration, so it is safe for
// concurrent use.
type Sender struct {
	client dispatch.MessagingClient
	dryRun bool
	logger *slog.Logger
}

// NewSender accepts the concrete messaging client but stores it as the
// interface. When dryRun is set, every send is processed by the provider
// without being delivered.
func NewSender(client dispatch.MessagingClient, dryRun bool, logger *slog.Logger) (*Sender, error) {
	if client == nil {
		return nil, errors.New("pushservice: messaging client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		client: client,
		dryRun: dryRun,
		logger: logger.With("component", "Sender"),
	}, nil
}

// SendToDevice delivers one payload to one device token. The outcome,
// success or classified failure, is always carried in the result.
func (s *Sender) SendToDevice(ctx context.Context, token string, p notification.Payload) notification.SendResult {
	msg := buildTokenMessage(token, p)

	id, err := s.send(ctx, msg, s.dryRun)
	if err != nil {
		cerr := classify(err, deviceTarget(token))
		s.logger.Warn("device send failed", "code", cerr.Code, "err", err)
		return notification.SendResult{Err: cerr}
	}
	return notification.SendResult{Success: true, MessageID: id}
}

// SendToDevices fans a payload out to many device tokens, splitting the
// list into provider-sized chunks. Results line up positionally with the
// input; a wholesale chunk failure marks every token in that chunk failed
// with the same classified error rather than dropping any of them.
func (s *Sender) SendToDevices(ctx context.Context, tokens []string, p notification.Payload) notification.BatchResult {
	batch := notification.BatchResult{Results: []notification.SendResult{}}
	if len(tokens) == 0 {
		return batch
	}

	for start := 0; start < len(tokens); start += maxTokensPerBatch {
		end := start + maxTokensPerBatch
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := tokens[start:end]

		msgs := make([]*messaging.Message, len(chunk))
		for i, token := range chunk {
			msgs[i] = buildTokenMessage(token, p)
		}

		br, err := s.sendEach(ctx, msgs, s.dryRun)
		if err != nil {
			// No per-item results exist; degrade the whole chunk.
			s.logger.Error("chunk dispatch failed", "size", len(chunk), "err", err)
			for _, token := range chunk {
				batch.Results = append(batch.Results, notification.SendResult{
					Err: classify(err, deviceTarget(token)),
				})
			}
			continue
		}

		for i, resp := range br.Responses {
			if resp.Success {
				batch.Results = append(batch.Results, notification.SendResult{
					Success:   true,
					MessageID: resp.MessageID,
				})
				continue
			}
			batch.Results = append(batch.Results, notification.SendResult{
				Err: classify(resp.Error, deviceTarget(chunk[i])),
			})
		}
	}

	for _, r := range batch.Results {
		if r.Success {
			batch.SuccessCount++
		} else {
			batch.FailureCount++
		}
	}

	s.logger.Info("batch dispatched",
		"tokens", len(tokens),
		"success", batch.SuccessCount,
		"failure", batch.FailureCount,
	)
	return batch
}

// SendToTopic delivers one payload to all subscribers of a topic. Topic
// failures carry no recipient token.
func (s *Sender) SendToTopic(ctx context.Context, topic string, p notification.Payload) notification.SendResult {
	msg := buildTopicMessage(topic, p)

	id, err := s.send(ctx, msg, s.dryRun)
	if err != nil {
		cerr := classify(err, topicTarget(topic))
		s.logger.Warn("topic send failed", "topic", topic, "code", cerr.Code, "err", err)
		return notification.SendResult{Err: cerr}
	}
	return notification.SendResult{Success: true, MessageID: id}
}

// ValidateToken probes a token with a dry-run send. Only the provider's
// explicit invalid-token codes flip the result to false; success and any
// unrelated error count as valid. The dry run is forced regardless of the
// Sender's configured mode so validation can never deliver.
func (s *Sender) ValidateToken(ctx context.Context, token string) bool {
	msg := buildTokenMessage(token, notification.Payload{
		Data: map[string]string{"validation": "true"},
	})

	_, err := s.client.SendDryRun(ctx, msg)
	if err == nil {
		return true
	}
	return !classify(err, deviceTarget(token)).IsInvalidToken()
}

func (s *Sender) send(ctx context.Context, msg *messaging.Message, dryRun bool) (string, error) {
	if dryRun {
		return s.client.SendDryRun(ctx, msg)
	}
	return s.client.Send(ctx, msg)
}

func (s *Sender) sendEach(ctx context.Context, msgs []*messaging.Message, dryRun bool) (*messaging.BatchResponse, error) {
	if dryRun {
		return s.client.SendEachDryRun(ctx, msgs)
	}
	return s.client.SendEach(ctx, msgs)
}
