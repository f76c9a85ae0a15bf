package order

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"time"

	"sapphirus/internal/domain"
	orderrepo "sapphirus/internal/repository/order"
)

var (
	// ErrMissingMetadata means the payment intent carried no usable user or
	// item metadata. Hard precondition, never retried.
	ErrMissingMetadata = errors.New("missing required payment metadata")
	// ErrNotSucceeded means the referenced intent has not been paid.
	ErrNotSucceeded = errors.New("payment intent not succeeded")
)

// duplicateWindow is the heuristic window for same-user/same-amount
// duplicates, kept in front of the payment-intent-id idempotency key.
const duplicateWindow = 5 * time.Minute

// Service turns a successful payment signal into durable order and inventory
// state, exactly once per payment intent.
type Service struct {
	repo   orderrepo.Repository
	logger *log.Logger
	window time.Duration
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger, window: duplicateWindow}
}

// FinalizeInput carries the order-construction inputs recovered from the
// payment intent's metadata.
type FinalizeInput struct {
	PaymentIntentID   string
	Amount            int64 // minor units, as charged
	UserID            string
	Items             []domain.CartItem
	ShippingAddressID string
	ShippingCost      float64
	Source            string // "webhook" or "client"
}

// FinalizeResult reports whether Finalize created the order or found it
// already processed.
type FinalizeResult struct {
	Order   *domain.Order
	Created bool
}

// Finalize is the single reconciliation path invoked by both the webhook and
// the client-confirmed checkout. It is idempotent per payment intent: replays
// return the existing order without writing anything.
func (s *Service) Finalize(ctx context.Context, in FinalizeInput) (*FinalizeResult, error) {
	if in.UserID == "" || len(in.Items) == 0 {
		return nil, ErrMissingMetadata
	}

	total := minorToAmount(in.Amount)

	if in.PaymentIntentID != "" {
		existing, err := s.repo.GetByPaymentIntent(ctx, in.PaymentIntentID)
		if err == nil {
			s.logger.Printf("order finalize: intent=%s already processed order=%s source=%s", in.PaymentIntentID, existing.ID, in.Source)
			return &FinalizeResult{Order: existing}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	exists, err := s.repo.ExistsRecent(ctx, in.UserID, total, s.window)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Printf("order finalize: duplicate within window user=%s total=%.2f source=%s", in.UserID, total, in.Source)
		return &FinalizeResult{}, nil
	}

	var addressID *string
	if in.ShippingAddressID != "" {
		addressID = &in.ShippingAddressID
	}

	items := make([]orderrepo.ItemInput, 0, len(in.Items))
	var itemsTotal float64
	for _, item := range in.Items {
		items = append(items, orderrepo.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
		itemsTotal += item.Price * float64(item.Quantity)
	}

	// The charged amount wins; a mismatch against the cart arithmetic is
	// logged for manual review, not rejected.
	if diff := math.Abs(itemsTotal + in.ShippingCost - total); diff > 0.01 {
		s.logger.Printf("order finalize: total mismatch intent=%s charged=%.2f items+shipping=%.2f", in.PaymentIntentID, total, itemsTotal+in.ShippingCost)
	}

	ord, err := s.repo.CreateWithItems(ctx, orderrepo.CreateInput{
		UserID:            in.UserID,
		PaymentIntentID:   in.PaymentIntentID,
		Status:            domain.OrderStatusProcessing,
		TotalAmount:       total,
		ShippingAddressID: addressID,
		ShippingCost:      in.ShippingCost,
		Items:             items,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) && in.PaymentIntentID != "" {
			existing, getErr := s.repo.GetByPaymentIntent(ctx, in.PaymentIntentID)
			if getErr != nil {
				return nil, getErr
			}
			return &FinalizeResult{Order: existing}, nil
		}
		return nil, err
	}

	s.logger.Printf("order finalize: created order=%s user=%s total=%.2f source=%s", ord.ID, in.UserID, total, in.Source)
	return &FinalizeResult{Order: ord, Created: true}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, errors.New("unknown order status")
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// minorToAmount converts integer minor units to the major-unit decimal stored
// on orders.
func minorToAmount(minor int64) float64 {
	return float64(minor) / 100
}
