package order

import (
	"encoding/json"
	"fmt"
	"strconv"

	"sapphirus/internal/domain"
	"sapphirus/internal/payments"
)

// Metadata keys stamped on the payment intent at creation and read back when
// the success signal arrives.
const (
	metaUserID            = "userId"
	metaItems             = "items"
	metaShippingAddressID = "shippingAddressId"
	metaShippingCost      = "shippingCost"
)

// IntentMetadata encodes the order-construction inputs for round-tripping
// through the payment gateway.
func IntentMetadata(userID string, items []domain.CartItem, shippingAddressID string, shippingCost float64) (map[string]string, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal cart items: %w", err)
	}

	meta := map[string]string{
		metaUserID: userID,
		metaItems:  string(itemsJSON),
	}
	if shippingAddressID != "" {
		meta[metaShippingAddressID] = shippingAddressID
		meta[metaShippingCost] = strconv.FormatFloat(shippingCost, 'f', 2, 64)
	}
	return meta, nil
}

// FinalizeInputFromIntent recovers the reconciliation inputs from a payment
// intent. Malformed item metadata yields an empty list, which Finalize then
// rejects as a precondition failure.
func FinalizeInputFromIntent(intent *payments.Intent, source string) FinalizeInput {
	in := FinalizeInput{
		PaymentIntentID: intent.ID,
		Amount:          intent.Amount,
		UserID:          intent.Metadata[metaUserID],
		Source:          source,
	}
	if raw := intent.Metadata[metaItems]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &in.Items)
	}
	in.ShippingAddressID = intent.Metadata[metaShippingAddressID]
	if raw := intent.Metadata[metaShippingCost]; raw != "" {
		if cost, err := strconv.ParseFloat(raw, 64); err == nil {
			in.ShippingCost = cost
		}
	}
	return in
}
