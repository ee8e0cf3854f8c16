// Package workerproc applies queued provider payment events.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/mikemtdev/career-lift/internal/payments"
	"github.com/mikemtdev/career-lift/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

type ErrMissingReference struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingReference) Error() string { return "missing payment reference" }

// ErrUnknownReference means the event names no stored payment.
type ErrUnknownReference struct {
	Reference string
}

func (e ErrUnknownReference) Error() string { return "unknown payment reference " + e.Reference }

// ErrProcess means a well-formed event could not be applied. It is retried.
type ErrProcess struct {
	Reference string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "apply payment event"
	}
	return "apply payment event: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Unrecoverable reports whether redelivering the message cannot succeed.
func Unrecoverable(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		missing ErrMissingReference
		unknown ErrUnknownReference
	)
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &missing) || errors.As(err, &unknown)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}
	msg, err := queue.DecodeMessage([]byte(body))
	if errors.Is(err, queue.ErrMissingReference) {
		return msg, meta, ErrMissingReference{Meta: meta, RequestID: msg.RequestID}
	}
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	return msg, meta, nil
}

// EventApplier settles payments from provider events.
type EventApplier interface {
	ApplyEvent(ctx context.Context, source string, ev payments.Event) (payments.VerifyResult, error)
}

// HandleMessage applies a decoded event.
func HandleMessage(ctx context.Context, applier EventApplier, msg queue.Message) error {
	if applier == nil {
		return errors.New("payment service not configured")
	}
	_, err := applier.ApplyEvent(ctx, "worker", payments.Event{
		Reference: msg.Reference,
		Status:    msg.Status,
		Event:     msg.Event,
	})
	if errors.Is(err, payments.ErrNotFound) {
		return ErrUnknownReference{Reference: msg.Reference}
	}
	if err != nil {
		return ErrProcess{Reference: msg.Reference, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
