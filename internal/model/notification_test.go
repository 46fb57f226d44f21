package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityFlagsLabel(t *testing.T) {
	tests := []struct {
		name  string
		flags PriorityFlags
		want  string
	}{
		{"none", PriorityFlags{}, "Regular"},
		{"senior", PriorityFlags{SeniorCitizen: true}, "Senior Citizen"},
		{"pregnant", PriorityFlags{Pregnant: true}, "Pregnant"},
		{"pwd", PriorityFlags{PWD: true}, "PWD"},
		{"senior wins over pwd", PriorityFlags{SeniorCitizen: true, PWD: true}, "Senior Citizen"},
		{"pregnant wins over pwd", PriorityFlags{Pregnant: true, PWD: true}, "Pregnant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.Label())
		})
	}
}

func TestPriorityLabelPrefersBackendType(t *testing.T) {
	c := Customer{
		PriorityType:  "Senior Citizen",
		PriorityFlags: PriorityFlags{PWD: true},
	}
	assert.Equal(t, "Senior Citizen", c.PriorityLabel())
}

func TestPriorityLabelFallsBackToFlags(t *testing.T) {
	c := Customer{PriorityFlags: PriorityFlags{Pregnant: true}}
	assert.Equal(t, "Pregnant", c.PriorityLabel())

	assert.Equal(t, "Regular", Customer{}.PriorityLabel())
}

func TestNotificationUnmarshal(t *testing.T) {
	payload := `{
		"id": "68ad2f9e",
		"createdAt": "2026-08-26T09:15:00Z",
		"customer": {
			"id": 42,
			"name": "Ana Reyes",
			"orNumber": "OR-2026-0815",
			"tokenNumber": "T-014",
			"paymentAmount": 1250.50,
			"paymentMode": "gcash",
			"priorityFlags": {"seniorCitizen": false, "pregnant": true, "pwd": false},
			"priorityType": "Pregnant"
		}
	}`

	var n Notification
	require.NoError(t, json.Unmarshal([]byte(payload), &n))

	assert.Equal(t, "68ad2f9e", n.ID)
	assert.Equal(t, time.Date(2026, 8, 26, 9, 15, 0, 0, time.UTC), n.CreatedAt)
	assert.Equal(t, int64(42), n.Customer.ID)
	assert.Equal(t, "Ana Reyes", n.Customer.Name)
	assert.Equal(t, "OR-2026-0815", n.Customer.ORNumber)
	assert.Equal(t, "T-014", n.Customer.TokenNumber)
	assert.Equal(t, 1250.50, n.Customer.PaymentAmount)
	assert.Equal(t, "gcash", n.Customer.PaymentMode)
	assert.True(t, n.Customer.PriorityFlags.Pregnant)
	assert.Equal(t, "Pregnant", n.Customer.PriorityLabel())
}
