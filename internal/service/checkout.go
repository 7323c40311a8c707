package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/verdantleaf/storefront/internal/domain"
	"github.com/verdantleaf/storefront/internal/event"
	"github.com/verdantleaf/storefront/internal/repository"
	apperrors "github.com/verdantleaf/storefront/pkg/errors"
)

// ProfileClient reads the shopper's saved addresses and cards from the
// profile service.
type ProfileClient interface {
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
}

// SettingsClient reads store-wide shipping methods and payment gateways from
// the settings service.
type SettingsClient interface {
	ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error)
	ListPaymentGateways(ctx context.Context) ([]domain.PaymentGateway, error)
}

// OrderClient submits confirmed orders to the order service.
type OrderClient interface {
	CreateOrder(ctx context.Context, userID string, sub *domain.OrderSubmission) (string, error)
}

// cartAccess is the slice of the cart service checkout depends on: the live
// cart at submit time, and clearing it after a successful order.
type cartAccess interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID, reason string) error
}

// CheckoutService drives the checkout flow: a linear sequence of steps over
// an ephemeral session, ending in exactly one terminal outcome.
type CheckoutService struct {
	sessions   repository.SessionStore
	carts      cartAccess
	profile    ProfileClient
	settings   SettingsClient
	orders     OrderClient
	producer   *event.Producer
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	sessions repository.SessionStore,
	carts cartAccess,
	profile ProfileClient,
	settings SettingsClient,
	orders OrderClient,
	producer *event.Producer,
	logger *slog.Logger,
	sessionTTL time.Duration,
) *CheckoutService {
	return &CheckoutService{
		sessions:   sessions,
		carts:      carts,
		profile:    profile,
		settings:   settings,
		orders:     orders,
		producer:   producer,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// Start opens a checkout session for the user. The four reference lists are
// fetched concurrently and the load is all-or-nothing: any fetch failure
// fails the whole start, so a session never begins with partial reference
// data. Defaults from the lists pre-select the session's fields.
func (s *CheckoutService) Start(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	var (
		addresses []domain.Address
		cards     []domain.PaymentMethod
		shipping  []domain.ShippingMethod
		gateways  []domain.PaymentGateway
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		addresses, err = s.profile.ListAddresses(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.profile.ListPaymentMethods(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		shipping, err = s.settings.ListShippingMethods(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		gateways, err = s.settings.ListPaymentGateways(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to load checkout reference data",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Wrap(err, "failed to load checkout data")
	}

	now := time.Now().UTC()
	session := &domain.CheckoutSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		Step:            domain.StepAddress,
		Addresses:       addresses,
		PaymentMethods:  cards,
		ShippingMethods: shipping,
		Gateways:        gateways,
		AddressSelection: domain.AddressSelection{
			Mode: domain.ModeExisting,
		},
		PaymentSelection: domain.PaymentSelection{
			CardMode: domain.ModeNew,
		},
		Outcome:   domain.Outcome{Status: domain.OutcomeNone},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if addr, ok := domain.DefaultAddress(addresses); ok {
		session.AddressSelection.AddressID = addr.ID
	}
	if len(addresses) == 0 {
		session.AddressSelection.Mode = domain.ModeNew
	}
	if method, ok := domain.DefaultShippingMethod(shipping); ok && method.IsDefault {
		session.ShippingSelection.MethodID = method.ID
	}
	if gw, ok := domain.DefaultGateway(gateways); ok {
		session.PaymentSelection.GatewayID = gw.ID
	}
	if card, ok := domain.DefaultPaymentMethod(cards); ok {
		session.PaymentSelection.CardMode = domain.ModeExisting
		session.PaymentSelection.CardID = card.ID
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "checkout session started",
		slog.String("user_id", userID),
		slog.String("session_id", session.ID),
		slog.Int("addresses", len(addresses)),
		slog.Int("shipping_methods", len(shipping)),
		slog.Int("gateways", len(gateways)),
	)

	return session, nil
}

// Get retrieves a live checkout session.
func (s *CheckoutService) Get(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

// SetAddress records the address step's selection. Validation happens at the
// step gate, not here, so a partially filled form can be saved freely.
func (s *CheckoutService) SetAddress(ctx context.Context, sessionID string, sel domain.AddressSelection) (*domain.CheckoutSession, error) {
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sel.Mode != domain.ModeExisting && sel.Mode != domain.ModeNew {
		return nil, apperrors.InvalidInput("address mode must be existing or new")
	}
	session.AddressSelection = sel
	return session, s.save(ctx, session)
}

// SetShippingMethod records the chosen shipping method. The method must be
// one of the options loaded into the session.
func (s *CheckoutService) SetShippingMethod(ctx context.Context, sessionID, methodID string) (*domain.CheckoutSession, error) {
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := session.FindShippingMethod(methodID); !ok {
		return nil, apperrors.InvalidInput("unknown shipping method")
	}
	session.ShippingSelection.MethodID = methodID
	return session, s.save(ctx, session)
}

// SetPayment records the payment step's selection. The gateway must be one of
// the enabled options loaded into the session; card details are validated at
// the step gate.
func (s *CheckoutService) SetPayment(ctx context.Context, sessionID string, sel domain.PaymentSelection) (*domain.CheckoutSession, error) {
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	gw, ok := session.FindGateway(sel.GatewayID)
	if !ok {
		return nil, apperrors.InvalidInput("unknown payment gateway")
	}
	if !gw.Enabled {
		return nil, apperrors.InvalidInput("payment gateway is disabled")
	}
	if sel.CardMode != domain.ModeExisting && sel.CardMode != domain.ModeNew {
		return nil, apperrors.InvalidInput("card mode must be existing or new")
	}
	session.PaymentSelection = sel
	return session, s.save(ctx, session)
}

// GoTo moves the session to the target step. Backward moves always succeed;
// forward moves require every intermediate step gate to pass, so a jump to
// review enforces the same requirements as stepping there one at a time.
func (s *CheckoutService) GoTo(ctx context.Context, sessionID string, target domain.Step) (*domain.CheckoutSession, error) {
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.CanTransition(target); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	session.Step = target
	s.ensureShippingSelection(session)
	return session, s.save(ctx, session)
}

// Advance moves the session one step forward, validating the current step's
// gate first.
func (s *CheckoutService) Advance(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := session.Step.Index()
	if idx >= len(domain.Steps())-1 {
		return nil, apperrors.InvalidInput("already at the final step")
	}
	target := domain.Steps()[idx+1]
	if err := session.CanTransition(target); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	session.Step = target
	s.ensureShippingSelection(session)
	return session, s.save(ctx, session)
}

// Back moves the session one step backward. No gate applies; the shopper can
// always revisit earlier steps, and their selections are preserved.
func (s *CheckoutService) Back(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := session.Step.Index()
	if idx <= 0 {
		return nil, apperrors.InvalidInput("already at the first step")
	}
	session.Step = domain.Steps()[idx-1]
	return session, s.save(ctx, session)
}

// PlaceOrder submits the order. The session must sit at the review step with
// every earlier gate still passing and the cart still non-empty; the subtotal
// is read from the live cart at this moment, not from any snapshot. Success
// and failure are both terminal: success clears the cart, failure leaves it
// intact so the shopper can retry.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.liveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != domain.StepReview {
		return nil, apperrors.InvalidInput("order can only be placed from the review step")
	}
	for _, step := range []domain.Step{domain.StepAddress, domain.StepShipping, domain.StepPayment} {
		if err := session.ValidateGate(step); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
	}

	cart, err := s.carts.GetCart(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	address, err := session.ShippingAddress()
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	method, ok := session.FindShippingMethod(session.ShippingSelection.MethodID)
	if !ok {
		return nil, apperrors.InvalidInput("no shipping method selected")
	}
	gateway, ok := session.FindGateway(session.PaymentSelection.GatewayID)
	if !ok {
		return nil, apperrors.InvalidInput("no payment gateway selected")
	}

	subtotal := cart.TotalPrice()
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	sub := &domain.OrderSubmission{
		CustomerID:      session.UserID,
		Items:           items,
		ShippingAddress: address,
		Payment: domain.OrderPayment{
			Method: gateway.Name,
			Status: domain.OrderStatusPending,
			Amount: subtotal + method.Price,
		},
		TotalAmount:  subtotal,
		ShippingCost: method.Price,
		Tax:          0,
		Status:       domain.OrderStatusPending,
	}

	orderID, err := s.orders.CreateOrder(ctx, session.UserID, sub)
	if err != nil {
		session.Outcome = domain.Outcome{
			Status:  domain.OutcomeFailure,
			Message: "order could not be placed",
		}
		if saveErr := s.save(ctx, session); saveErr != nil {
			s.logger.ErrorContext(ctx, "failed to store failed checkout session",
				slog.String("session_id", session.ID),
				slog.String("error", saveErr.Error()),
			)
		}
		s.publishFinished(ctx, session, 0, err.Error())
		s.logger.ErrorContext(ctx, "order submission failed",
			slog.String("user_id", session.UserID),
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
		return session, nil
	}

	session.Outcome = domain.Outcome{
		Status:  domain.OutcomeSuccess,
		OrderID: orderID,
	}
	if err := s.save(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to store completed checkout session",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.carts.ClearCart(ctx, session.UserID, ClearReasonOrderPlaced); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after order",
			slog.String("user_id", session.UserID),
			slog.String("error", err.Error()),
		)
	}

	s.publishFinished(ctx, session, sub.Payment.Amount, "")

	s.logger.InfoContext(ctx, "order placed",
		slog.String("user_id", session.UserID),
		slog.String("session_id", session.ID),
		slog.String("order_id", orderID),
		slog.Int64("total_amount", sub.TotalAmount),
		slog.Int64("shipping_cost", sub.ShippingCost),
	)

	return session, nil
}

// liveSession loads a session and rejects terminal ones: once checkout has
// finished, the session is read-only.
func (s *CheckoutService) liveSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsTerminal() {
		return nil, apperrors.Conflict("checkout has already finished")
	}
	return session, nil
}

// ensureShippingSelection auto-selects the default (or first) shipping method
// when the session reaches the shipping step without a choice, so the shopper
// always lands on the step with a valid pre-selection when options exist.
func (s *CheckoutService) ensureShippingSelection(session *domain.CheckoutSession) {
	if session.Step != domain.StepShipping || session.ShippingSelection.MethodID != "" {
		return
	}
	if method, ok := domain.DefaultShippingMethod(session.ShippingMethods); ok {
		session.ShippingSelection.MethodID = method.ID
	}
}

func (s *CheckoutService) save(ctx context.Context, session *domain.CheckoutSession) error {
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Put(ctx, session); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *CheckoutService) publishFinished(ctx context.Context, session *domain.CheckoutSession, totalAmount int64, reason string) {
	var err error
	if session.Outcome.Status == domain.OutcomeSuccess {
		err = s.producer.PublishCheckoutCompleted(ctx, session, totalAmount)
	} else {
		err = s.producer.PublishCheckoutFailed(ctx, session, reason)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}
}
