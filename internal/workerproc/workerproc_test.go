package workerproc

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikemtdev/career-lift/internal/payments"
	"github.com/mikemtdev/career-lift/internal/queue"
)

type fakeApplier struct {
	mu      sync.Mutex
	errs    map[string]error
	applied []payments.Event
}

func (f *fakeApplier) ApplyEvent(_ context.Context, source string, ev payments.Event) (payments.VerifyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if source != "worker" {
		return payments.VerifyResult{}, errors.New("unexpected source " + source)
	}
	if err := f.errs[ev.Reference]; err != nil {
		return payments.VerifyResult{}, err
	}
	f.applied = append(f.applied, ev)
	return payments.VerifyResult{Status: payments.StatusSuccess}, nil
}

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]sqstypes.Message
	receives int
	deleted  []string
	cancel   context.CancelFunc
}

func (f *fakeSQS) SendMessage(context.Context, *sqs.SendMessageInput, ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	return &sqs.SendMessageOutput{}, nil
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.receives < len(f.batches) {
		batch := f.batches[f.receives]
		f.receives++
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	f.cancel()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func sqsMessage(t *testing.T, receipt string, msg *queue.Message) sqstypes.Message {
	t.Helper()
	body := ""
	if msg != nil {
		payload, err := queue.EncodeMessage(*msg)
		require.NoError(t, err)
		body = string(payload)
	}
	return sqstypes.Message{
		MessageId:     aws.String("id-" + receipt),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(body),
		Attributes:    map[string]string{receiveCountAttribute: "2"},
	}
}

func TestParseMessage(t *testing.T) {
	_, meta, err := ParseMessage("")
	assert.ErrorAs(t, err, &ErrEmptyBody{})
	assert.Zero(t, meta.BodyLen)

	_, meta, err = ParseMessage("{")
	var decodeErr ErrDecode
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 1, meta.BodyLen)
	assert.Len(t, meta.BodySHA, 64)

	_, _, err = ParseMessage(`{"status":"success","requestId":"r1"}`)
	var missing ErrMissingReference
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "r1", missing.RequestID)

	msg, _, err := ParseMessage(`{"reference":"CV_1_u","status":"success","event":"charge.success"}`)
	require.NoError(t, err)
	assert.Equal(t, "CV_1_u", msg.Reference)
}

func TestHandleMessageClassifiesErrors(t *testing.T) {
	applier := &fakeApplier{errs: map[string]error{
		"gone":  payments.ErrNotFound,
		"flaky": errors.New("db timeout"),
	}}
	ctx := context.Background()

	require.NoError(t, HandleMessage(ctx, applier, queue.Message{Reference: "ok"}))

	err := HandleMessage(ctx, applier, queue.Message{Reference: "gone"})
	assert.True(t, Unrecoverable(err))

	err = HandleMessage(ctx, applier, queue.Message{Reference: "flaky"})
	var procErr ErrProcess
	require.ErrorAs(t, err, &procErr)
	assert.False(t, Unrecoverable(err))
	assert.Equal(t, "flaky", procErr.Reference)
}

func TestWorkerRunDeletesHandledMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applier := &fakeApplier{errs: map[string]error{
		"gone":  payments.ErrNotFound,
		"flaky": errors.New("db timeout"),
	}}
	api := &fakeSQS{cancel: cancel}
	api.batches = [][]sqstypes.Message{{
		sqsMessage(t, "r-ok", &queue.Message{Reference: "ok", Status: "success", Event: "charge.success"}),
		sqsMessage(t, "r-empty", nil),
		sqsMessage(t, "r-gone", &queue.Message{Reference: "gone", Status: "failed"}),
		sqsMessage(t, "r-flaky", &queue.Message{Reference: "flaky", Status: "failed"}),
	}}

	w := &Worker{API: api, QueueURL: "q", Applier: applier, Concurrency: 2, ShutdownTimeout: 5 * time.Second}
	w.Run(ctx)

	sort.Strings(api.deleted)
	assert.Equal(t, []string{"r-empty", "r-gone", "r-ok"}, api.deleted)
	require.Len(t, applier.applied, 1)
	assert.Equal(t, "ok", applier.applied[0].Reference)
}
