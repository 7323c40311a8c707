package domain

import (
	"fmt"
	"slices"
	"time"
)

// Step is a position in the checkout flow.
type Step string

// Checkout steps, in order.
const (
	StepAddress  Step = "address"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// stepOrder fixes the linear ordering of the flow.
var stepOrder = []Step{StepAddress, StepShipping, StepPayment, StepReview}

// Steps returns the checkout steps in order.
func Steps() []Step {
	return stepOrder
}

// Index returns the zero-based position of the step, or -1 for an unknown step.
func (s Step) Index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is a known checkout step.
func (s Step) IsValid() bool {
	return s.Index() >= 0
}

// Selection modes for the address and card forms.
const (
	ModeExisting = "existing"
	ModeNew      = "new"
)

// AddressSelection is the state of the address step: either a reference to a
// saved address or a new draft.
type AddressSelection struct {
	Mode      string       `json:"mode"`
	AddressID string       `json:"address_id,omitempty"`
	Draft     AddressDraft `json:"draft,omitempty"`
}

// ShippingSelection is the state of the shipping step.
type ShippingSelection struct {
	MethodID string `json:"method_id,omitempty"`
}

// PaymentSelection is the state of the payment step: a gateway plus either a
// saved card reference or a new card draft.
type PaymentSelection struct {
	GatewayID string    `json:"gateway_id,omitempty"`
	CardMode  string    `json:"card_mode"`
	CardID    string    `json:"card_id,omitempty"`
	CardDraft CardDraft `json:"card_draft,omitempty"`
}

// Outcome statuses. The outcome is terminal once set.
const (
	OutcomeNone    = "none"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Outcome is the terminal result of a checkout session.
type Outcome struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	OrderID string `json:"order_id,omitempty"`
}

// CheckoutSession is an in-progress checkout. Sessions are ephemeral: they
// live in memory with a TTL and are never persisted across restarts.
type CheckoutSession struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Step   Step   `json:"step"`

	// Reference snapshots loaded when the session starts.
	Addresses       []Address        `json:"addresses"`
	PaymentMethods  []PaymentMethod  `json:"payment_methods"`
	ShippingMethods []ShippingMethod `json:"shipping_methods"`
	Gateways        []PaymentGateway `json:"gateways"`

	AddressSelection  AddressSelection  `json:"address_selection"`
	ShippingSelection ShippingSelection `json:"shipping_selection"`
	PaymentSelection  PaymentSelection  `json:"payment_selection"`

	Outcome Outcome `json:"outcome"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Clone returns an independent copy of the session. The reference snapshots
// are flat value structs, so cloning the slices is a full deep copy.
func (s *CheckoutSession) Clone() *CheckoutSession {
	cp := *s
	cp.Addresses = slices.Clone(s.Addresses)
	cp.PaymentMethods = slices.Clone(s.PaymentMethods)
	cp.ShippingMethods = slices.Clone(s.ShippingMethods)
	cp.Gateways = slices.Clone(s.Gateways)
	return &cp
}

// IsTerminal reports whether the session has reached its terminal outcome.
// Terminal sessions accept no further step transitions.
func (s *CheckoutSession) IsTerminal() bool {
	return s.Outcome.Status != "" && s.Outcome.Status != OutcomeNone
}

// IsExpired reports whether the session has passed its expiry time.
func (s *CheckoutSession) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// FindAddress returns the reference address with the given ID.
func (s *CheckoutSession) FindAddress(id string) (Address, bool) {
	for _, a := range s.Addresses {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}

// FindShippingMethod returns the reference shipping method with the given ID.
func (s *CheckoutSession) FindShippingMethod(id string) (ShippingMethod, bool) {
	for _, m := range s.ShippingMethods {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

// FindGateway returns the reference payment gateway with the given ID.
func (s *CheckoutSession) FindGateway(id string) (PaymentGateway, bool) {
	for _, g := range s.Gateways {
		if g.ID == id {
			return g, true
		}
	}
	return PaymentGateway{}, false
}

// FindPaymentMethod returns the saved card with the given ID.
func (s *CheckoutSession) FindPaymentMethod(id string) (PaymentMethod, bool) {
	for _, m := range s.PaymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// ShippingAddress resolves the address the order will ship to: the selected
// saved address in existing mode, or the draft in new mode.
func (s *CheckoutSession) ShippingAddress() (Address, error) {
	if s.AddressSelection.Mode == ModeNew {
		d := s.AddressSelection.Draft
		return Address{
			Name:    d.Name,
			Street:  d.Street,
			City:    d.City,
			State:   d.State,
			ZipCode: d.ZipCode,
		}, nil
	}
	addr, ok := s.FindAddress(s.AddressSelection.AddressID)
	if !ok {
		return Address{}, fmt.Errorf("no shipping address selected")
	}
	return addr, nil
}

// ValidateGate checks whether the named step's exit requirements are met.
// A nil error means the step boundary may be crossed.
func (s *CheckoutSession) ValidateGate(step Step) error {
	switch step {
	case StepAddress:
		if s.AddressSelection.Mode == ModeNew {
			if errs := s.AddressSelection.Draft.Validate(); errs != nil {
				return fmt.Errorf("address: %w", errs)
			}
			return nil
		}
		if s.AddressSelection.AddressID == "" {
			return fmt.Errorf("select a shipping address to continue")
		}
		if _, ok := s.FindAddress(s.AddressSelection.AddressID); !ok {
			return fmt.Errorf("selected address is no longer available")
		}
		return nil

	case StepShipping:
		if s.ShippingSelection.MethodID == "" {
			return fmt.Errorf("select a shipping method to continue")
		}
		if _, ok := s.FindShippingMethod(s.ShippingSelection.MethodID); !ok {
			return fmt.Errorf("selected shipping method is no longer available")
		}
		return nil

	case StepPayment:
		if s.PaymentSelection.GatewayID == "" {
			return fmt.Errorf("select a payment method to continue")
		}
		gw, ok := s.FindGateway(s.PaymentSelection.GatewayID)
		if !ok {
			return fmt.Errorf("selected payment gateway is no longer available")
		}
		if gw.IsCardPayment() && s.PaymentSelection.CardMode == ModeNew {
			if errs := s.PaymentSelection.CardDraft.Validate(); errs != nil {
				return fmt.Errorf("card: %w", errs)
			}
		}
		return nil

	case StepReview:
		// Review has no exit gate of its own; placing the order has its
		// own preconditions.
		return nil

	default:
		return fmt.Errorf("unknown checkout step %q", step)
	}
}

// CanTransition checks whether the session may move from its current step to
// the target step. Backward moves are always allowed; forward moves require
// every step between the current position and the target to pass its gate.
func (s *CheckoutSession) CanTransition(target Step) error {
	if s.IsTerminal() {
		return fmt.Errorf("checkout has already finished")
	}
	ti := target.Index()
	if ti < 0 {
		return fmt.Errorf("unknown checkout step %q", target)
	}
	ci := s.Step.Index()
	if ti <= ci {
		return nil
	}
	for i := ci; i < ti; i++ {
		if err := s.ValidateGate(stepOrder[i]); err != nil {
			return err
		}
	}
	return nil
}
