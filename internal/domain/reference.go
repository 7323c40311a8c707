package domain

import "strings"

// Reference entities are read-only snapshots fetched from the profile and
// settings services when a checkout session starts. Each list carries at most
// one default element, used to pre-select session fields.

// Address is a saved shipping address.
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	IsDefault bool   `json:"is_default"`
}

// PaymentMethod is a saved card summary.
type PaymentMethod struct {
	ID         string `json:"id"`
	CardType   string `json:"card_type"`
	LastFour   string `json:"last_four"`
	ExpiryDate string `json:"expiry_date"`
	IsDefault  bool   `json:"is_default"`
}

// ShippingMethod is a delivery option with its price in cents.
type ShippingMethod struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Price             int64  `json:"price"`
	EstimatedDelivery string `json:"estimated_delivery"`
	IsDefault         bool   `json:"is_default"`
}

// PaymentGateway is a payment provider configured by the back office.
type PaymentGateway struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Enabled   bool   `json:"enabled"`
	IsDefault bool   `json:"is_default"`
}

// IsCardPayment reports whether the gateway charges a card, which is what
// makes the new-card form (and its validation) relevant in checkout.
func (g PaymentGateway) IsCardPayment() bool {
	name := strings.ToLower(g.Name)
	return strings.Contains(name, "card") || strings.Contains(name, "stripe")
}

// DefaultShippingMethod returns the default shipping method, falling back to
// the first element when none is marked default. The second return is false
// only for an empty list.
func DefaultShippingMethod(methods []ShippingMethod) (ShippingMethod, bool) {
	if len(methods) == 0 {
		return ShippingMethod{}, false
	}
	for _, m := range methods {
		if m.IsDefault {
			return m, true
		}
	}
	return methods[0], true
}

// DefaultAddress returns the address marked default, if any.
func DefaultAddress(addresses []Address) (Address, bool) {
	for _, a := range addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

// DefaultGateway returns the enabled gateway marked default, falling back to
// the first enabled gateway.
func DefaultGateway(gateways []PaymentGateway) (PaymentGateway, bool) {
	var first *PaymentGateway
	for i, g := range gateways {
		if !g.Enabled {
			continue
		}
		if g.IsDefault {
			return g, true
		}
		if first == nil {
			first = &gateways[i]
		}
	}
	if first != nil {
		return *first, true
	}
	return PaymentGateway{}, false
}

// DefaultPaymentMethod returns the saved card marked default, if any.
func DefaultPaymentMethod(methods []PaymentMethod) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.IsDefault {
			return m, true
		}
	}
	return PaymentMethod{}, false
}
