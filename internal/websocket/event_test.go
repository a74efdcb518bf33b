package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     1,
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
	after := time.Now()

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":       float64(1),
		"category": "groceries",
		"amount":   "-50.00",
	}

	evt := Event{
		Type:      "transaction.created",
		Entity:    EntityTypeTransaction,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	// Payload should be preserved
	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, "groceries", decodedPayload["category"])
	assert.Equal(t, "-50.00", decodedPayload["amount"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "transaction.updated", decoded["type"])
	assert.Equal(t, "transaction", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":     float64(1),
		"amount": "50.00",
	}

	tests := []struct {
		name       string
		build      func(interface{}) Event
		wantType   string
		wantEntity EntityType
	}{
		{"TransactionCreated", TransactionCreated, "transaction.created", EntityTypeTransaction},
		{"TransactionUpdated", TransactionUpdated, "transaction.updated", EntityTypeTransaction},
		{"TransactionDeleted", TransactionDeleted, "transaction.deleted", EntityTypeTransaction},
		{"BudgetUpdated", BudgetUpdated, "budget.updated", EntityTypeBudget},
		{"GoalCreated", GoalCreated, "goal.created", EntityTypeGoal},
		{"GoalUpdated", GoalUpdated, "goal.updated", EntityTypeGoal},
		{"InvestmentUpdated", InvestmentUpdated, "investment.updated", EntityTypeInvestment},
		{"RecurringCreated", RecurringCreated, "recurring.created", EntityTypeRecurring},
		{"RecurringUpdated", RecurringUpdated, "recurring.updated", EntityTypeRecurring},
		{"RecurringDeleted", RecurringDeleted, "recurring.deleted", EntityTypeRecurring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := tt.build(payload)
			assert.Equal(t, tt.wantType, evt.Type)
			assert.Equal(t, tt.wantEntity, evt.Entity)
			assert.Equal(t, payload, evt.Payload)
		})
	}
}
