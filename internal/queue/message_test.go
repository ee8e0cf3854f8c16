package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeStampsVersion(t *testing.T) {
	payload, err := EncodeMessage(Message{Reference: "CV_1_abc", Status: "success", Event: "charge.success"})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"version":1`)

	got, err := DecodeMessage(payload)
	require.NoError(t, err)
	assert.Equal(t, "CV_1_abc", got.Reference)
	assert.Equal(t, "charge.success", got.Event)
}

func TestDecodeRejectsMissingReference(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"status":"success","requestId":"r1"}`))
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.Equal(t, "r1", msg.RequestID)

	_, err = DecodeMessage([]byte(`{`))
	assert.Error(t, err)
}
