package payments

import "context"

// Intent is the slice of the gateway's payment-intent object this system
// cares about: id, amount, status, and the metadata it round-trips.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64 // minor units
	Currency     string
	Status       string
	Metadata     map[string]string
}

type IntentInput struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

const StatusSucceeded = "succeeded"

type Gateway interface {
	CreateIntent(ctx context.Context, in IntentInput) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}
