package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "storefront.cart.updated", Topic("cart", "updated"))
	assert.Equal(t, "storefront.checkout.completed", Topic("checkout", "completed"))
}

func TestEvent_RoundTrip(t *testing.T) {
	type payload struct {
		UserID string `json:"user_id"`
		Total  int64  `json:"total"`
	}

	event, err := NewEvent("cart.updated", "user-1", "cart", "storefront", payload{UserID: "user-1", Total: 2500})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())

	event.WithCorrelationID("corr-1")

	data, err := event.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, got.EventID)
	assert.Equal(t, "cart.updated", got.EventType)
	assert.Equal(t, "corr-1", got.CorrelationID)

	var p payload
	require.NoError(t, got.UnmarshalData(&p))
	assert.Equal(t, int64(2500), p.Total)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("cart.updated", "user-1", "cart", "storefront", make(chan int))
	assert.Error(t, err)
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}
