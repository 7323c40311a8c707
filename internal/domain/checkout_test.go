package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *CheckoutSession {
	now := time.Now().UTC()
	return &CheckoutSession{
		ID:     "sess-1",
		UserID: "user-1",
		Step:   StepAddress,
		Addresses: []Address{
			{ID: "addr-1", Name: "Home", Street: "12 Fern Way", City: "Portland", State: "OR", ZipCode: "97201", IsDefault: true},
			{ID: "addr-2", Name: "Work", Street: "900 Moss St", City: "Portland", State: "OR", ZipCode: "97209"},
		},
		ShippingMethods: []ShippingMethod{
			{ID: "ship-std", Name: "Standard", Price: 500, IsDefault: true},
			{ID: "ship-exp", Name: "Express", Price: 1500},
		},
		Gateways: []PaymentGateway{
			{ID: "gw-card", Name: "Credit Card", Enabled: true, IsDefault: true},
			{ID: "gw-cod", Name: "Cash on Delivery", Enabled: true},
		},
		AddressSelection: AddressSelection{Mode: ModeExisting},
		PaymentSelection: PaymentSelection{CardMode: ModeNew},
		Outcome:          Outcome{Status: OutcomeNone},
		CreatedAt:        now,
		UpdatedAt:        now,
		ExpiresAt:        now.Add(30 * time.Minute),
	}
}

func TestStep_Index(t *testing.T) {
	assert.Equal(t, 0, StepAddress.Index())
	assert.Equal(t, 1, StepShipping.Index())
	assert.Equal(t, 2, StepPayment.Index())
	assert.Equal(t, 3, StepReview.Index())
	assert.Equal(t, -1, Step("unknown").Index())
	assert.False(t, Step("unknown").IsValid())
}

func TestValidateGate_Address(t *testing.T) {
	s := newTestSession()

	// No selection yet.
	assert.Error(t, s.ValidateGate(StepAddress))

	// Existing mode with a known address.
	s.AddressSelection = AddressSelection{Mode: ModeExisting, AddressID: "addr-1"}
	assert.NoError(t, s.ValidateGate(StepAddress))

	// Existing mode pointing at a vanished address.
	s.AddressSelection.AddressID = "addr-gone"
	assert.Error(t, s.ValidateGate(StepAddress))

	// New mode validates the draft fields.
	s.AddressSelection = AddressSelection{Mode: ModeNew, Draft: AddressDraft{Name: "J", Street: "1 St", City: "P", State: "OR", ZipCode: "bad"}}
	assert.Error(t, s.ValidateGate(StepAddress))

	s.AddressSelection.Draft.ZipCode = "97201"
	assert.NoError(t, s.ValidateGate(StepAddress))
}

func TestValidateGate_Shipping(t *testing.T) {
	s := newTestSession()

	assert.Error(t, s.ValidateGate(StepShipping))

	s.ShippingSelection.MethodID = "ship-std"
	assert.NoError(t, s.ValidateGate(StepShipping))

	s.ShippingSelection.MethodID = "ship-gone"
	assert.Error(t, s.ValidateGate(StepShipping))
}

func TestValidateGate_Payment(t *testing.T) {
	s := newTestSession()

	assert.Error(t, s.ValidateGate(StepPayment))

	// Card gateway in new-card mode requires a valid card draft.
	s.PaymentSelection = PaymentSelection{GatewayID: "gw-card", CardMode: ModeNew}
	assert.Error(t, s.ValidateGate(StepPayment))

	s.PaymentSelection.CardDraft = CardDraft{
		Number:     "4111111111111111",
		HolderName: "Jordan Reyes",
		Expiry:     "09/27",
		CVV:        "123",
	}
	assert.NoError(t, s.ValidateGate(StepPayment))

	// Non-card gateway never requires card details.
	s.PaymentSelection = PaymentSelection{GatewayID: "gw-cod", CardMode: ModeNew}
	assert.NoError(t, s.ValidateGate(StepPayment))
}

func TestCanTransition_BackwardAlwaysAllowed(t *testing.T) {
	s := newTestSession()
	s.Step = StepReview

	assert.NoError(t, s.CanTransition(StepAddress))
	assert.NoError(t, s.CanTransition(StepShipping))
	assert.NoError(t, s.CanTransition(StepPayment))
	assert.NoError(t, s.CanTransition(StepReview))
}

func TestCanTransition_ForwardRequiresAllGates(t *testing.T) {
	s := newTestSession()

	// Nothing selected: a jump to review fails at the address gate.
	assert.Error(t, s.CanTransition(StepReview))

	// Address chosen: the jump now fails at the shipping gate.
	s.AddressSelection = AddressSelection{Mode: ModeExisting, AddressID: "addr-1"}
	assert.NoError(t, s.CanTransition(StepShipping))
	assert.Error(t, s.CanTransition(StepReview))

	// All gates satisfied: the jump goes through.
	s.ShippingSelection.MethodID = "ship-std"
	s.PaymentSelection = PaymentSelection{GatewayID: "gw-cod", CardMode: ModeExisting}
	assert.NoError(t, s.CanTransition(StepReview))
}

func TestCanTransition_TerminalSessionRejectsAll(t *testing.T) {
	s := newTestSession()
	s.Outcome = Outcome{Status: OutcomeSuccess, OrderID: "order-1"}

	require.True(t, s.IsTerminal())
	assert.Error(t, s.CanTransition(StepAddress))
	assert.Error(t, s.CanTransition(StepReview))
}

func TestShippingAddress(t *testing.T) {
	s := newTestSession()

	s.AddressSelection = AddressSelection{Mode: ModeExisting, AddressID: "addr-2"}
	addr, err := s.ShippingAddress()
	require.NoError(t, err)
	assert.Equal(t, "900 Moss St", addr.Street)

	s.AddressSelection = AddressSelection{Mode: ModeNew, Draft: AddressDraft{Name: "J", Street: "5 Vine Ln", City: "Salem", State: "OR", ZipCode: "97301"}}
	addr, err = s.ShippingAddress()
	require.NoError(t, err)
	assert.Equal(t, "5 Vine Ln", addr.Street)
	assert.Empty(t, addr.ID)

	s.AddressSelection = AddressSelection{Mode: ModeExisting}
	_, err = s.ShippingAddress()
	assert.Error(t, err)
}

func TestIsExpired(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.IsExpired())

	s.ExpiresAt = time.Now().UTC().Add(-time.Second)
	assert.True(t, s.IsExpired())
}

func TestDefaultShippingMethod(t *testing.T) {
	methods := []ShippingMethod{
		{ID: "a", Name: "Standard"},
		{ID: "b", Name: "Express", IsDefault: true},
	}
	m, ok := DefaultShippingMethod(methods)
	assert.True(t, ok)
	assert.Equal(t, "b", m.ID)

	// No default falls back to the first option.
	m, ok = DefaultShippingMethod([]ShippingMethod{{ID: "a"}, {ID: "b"}})
	assert.True(t, ok)
	assert.Equal(t, "a", m.ID)

	_, ok = DefaultShippingMethod(nil)
	assert.False(t, ok)
}

func TestDefaultGateway(t *testing.T) {
	gateways := []PaymentGateway{
		{ID: "a", Enabled: false, IsDefault: true},
		{ID: "b", Enabled: true},
		{ID: "c", Enabled: true, IsDefault: true},
	}
	g, ok := DefaultGateway(gateways)
	assert.True(t, ok)
	assert.Equal(t, "c", g.ID, "disabled defaults must be skipped")

	g, ok = DefaultGateway([]PaymentGateway{{ID: "a", Enabled: false}, {ID: "b", Enabled: true}})
	assert.True(t, ok)
	assert.Equal(t, "b", g.ID)

	_, ok = DefaultGateway([]PaymentGateway{{ID: "a", Enabled: false}})
	assert.False(t, ok)
}

func TestPaymentGateway_IsCardPayment(t *testing.T) {
	assert.True(t, PaymentGateway{Name: "Credit Card"}.IsCardPayment())
	assert.True(t, PaymentGateway{Name: "Stripe"}.IsCardPayment())
	assert.False(t, PaymentGateway{Name: "Cash on Delivery"}.IsCardPayment())
}
