package model

import "time"

// PriorityFlags marks the lane-priority categories a customer can claim
// at registration time.
type PriorityFlags struct {
	SeniorCitizen bool `json:"seniorCitizen"`
	Pregnant      bool `json:"pregnant"`
	PWD           bool `json:"pwd"`
}

// Label returns the display label derived from the flags. When several
// flags are set, the first match in senior/pregnant/PWD order wins,
// matching how the backend derives priorityType.
func (f PriorityFlags) Label() string {
	switch {
	case f.SeniorCitizen:
		return "Senior Citizen"
	case f.Pregnant:
		return "Pregnant"
	case f.PWD:
		return "PWD"
	default:
		return "Regular"
	}
}

// Customer is the registered customer carried inside a notification.
type Customer struct {
	// ID is the backend's customer identifier.
	ID int64 `json:"id"`

	// Name is the customer's display name.
	Name string `json:"name"`

	// ORNumber is the official receipt number assigned at registration.
	ORNumber string `json:"orNumber"`

	// TokenNumber is the queue token shown on the waiting-area display.
	TokenNumber string `json:"tokenNumber"`

	// PaymentAmount is the amount due for the registered transaction.
	PaymentAmount float64 `json:"paymentAmount"`

	// PaymentMode is the declared payment method (e.g., "cash", "gcash").
	PaymentMode string `json:"paymentMode"`

	// PriorityFlags holds the raw priority claims.
	PriorityFlags PriorityFlags `json:"priorityFlags"`

	// PriorityType is the backend-derived priority label. May be empty
	// on older payloads; PriorityLabel falls back to the flags then.
	PriorityType string `json:"priorityType"`
}

// PriorityLabel returns the priority label to display for this customer.
func (c Customer) PriorityLabel() string {
	if c.PriorityType != "" {
		return c.PriorityType
	}
	return c.PriorityFlags.Label()
}

// Notification is a customer-registration event delivered to cashier
// surfaces. It is immutable once received; its ID is the identity key
// used for deduplication.
type Notification struct {
	// ID is the opaque unique identifier assigned by the backend.
	ID string `json:"id"`

	// CreatedAt is when the registration happened, used for
	// relative-age display only.
	CreatedAt time.Time `json:"createdAt"`

	// Customer is the registered customer this notification is about.
	Customer Customer `json:"customer"`
}
