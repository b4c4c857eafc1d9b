package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"coinshop/internal/domain"
	"coinshop/internal/payment"
	cartrepo "coinshop/internal/repository/cart"
	userrepo "coinshop/internal/repository/user"
)

// allowedShippingCountries is the shippable-destination allow-list passed to
// the payment provider.
var allowedShippingCountries = []string{
	"US", "CA", "GB", "AU", "DE", "FR", "IT", "ES", "NL", "BE", "AT", "IE", "NZ", "JP", "MX",
}

type Service struct {
	carts    cartRepo
	users    userRepo
	provider payment.Provider
	baseURL  string
	logger   *log.Logger
}

type cartRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	DeleteAllForUser(ctx context.Context, userID string) error
}

type userRepo interface {
	Ensure(ctx context.Context, id string) (*domain.User, error)
}

func New(carts cartrepo.Repository, users userrepo.Repository, provider payment.Provider, baseURL string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:    carts,
		users:    users,
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// CreateSession snapshots the cart into a payment manifest and asks the
// provider for a hosted payment page. Prices come from the live coin records;
// nothing is reserved locally.
func (s *Service) CreateSession(ctx context.Context, userID string) (string, error) {
	if _, err := s.users.Ensure(ctx, userID); err != nil {
		return "", err
	}
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", domain.ErrEmptyCart
	}

	lines := make([]payment.CheckoutLine, 0, len(items))
	for _, item := range items {
		coin := item.Coin
		if coin == nil {
			return "", fmt.Errorf("cart item %d has no coin", item.ID)
		}
		name := coin.Name
		if name == "" {
			name = fmt.Sprintf("Coin #%d", coin.ID)
		}
		lines = append(lines, payment.CheckoutLine{
			Name:            name,
			Description:     joinNonEmpty(" • ", coin.Year, coin.Country),
			ImageURL:        coin.ImageURL,
			UnitAmountCents: coin.PriceCents,
			Quantity:        item.Quantity,
		})
	}

	url, err := s.provider.CreateCheckoutSession(ctx, payment.CreateSessionInput{
		UserID:           userID,
		Lines:            lines,
		SuccessURL:       s.baseURL + "/cart/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        s.baseURL + "/cart/cancel",
		AllowedCountries: allowedShippingCountries,
	})
	if err != nil {
		s.logger.Printf("checkout: create session user_id=%s error=%v", userID, err)
		return "", domain.ErrSessionCreationFailed
	}
	if url == "" {
		return "", domain.ErrSessionCreationFailed
	}
	return url, nil
}

// ClearCartFallback clears the caller's cart after verifying with the
// provider that the session is paid and belongs to them. It never creates
// orders; the webhook path owns that. Best-effort: a transient provider
// failure surfaces as an error and the success page may simply retry.
func (s *Service) ClearCartFallback(ctx context.Context, userID, sessionID string) error {
	sess, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		s.logger.Printf("checkout: retrieve session user_id=%s session_id=%s error=%v", userID, sessionID, err)
		return err
	}
	if !sess.Paid {
		return domain.ErrSessionNotPaid
	}
	if sess.UserID != userID {
		return domain.ErrSessionOwnership
	}
	return s.carts.DeleteAllForUser(ctx, userID)
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
