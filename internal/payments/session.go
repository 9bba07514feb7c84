package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdxfresh/checkout-service/domain"
)

// SessionBuilder assembles hosted checkout sessions from validated items.
type SessionBuilder struct {
	client  Client
	siteURL string
}

func NewSessionBuilder(client Client, siteURL string) *SessionBuilder {
	return &SessionBuilder{
		client:  client,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// BuildRequest carries everything the builder needs. UserID and Email are
// empty for guest checkouts, in which case the processor collects the email
// itself.
type BuildRequest struct {
	Items       []domain.CartItem
	UserID      string
	Email       string
	CouponCode  string
	SuccessPath string
	CancelPath  string
}

const (
	defaultSuccessPath = "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	defaultCancelPath  = "/cart"
)

// Build requests a hosted checkout session and returns its redirect URL.
// Session metadata carries the user and item identifiers so the webhook
// processor can correlate the completed session later.
func (b *SessionBuilder) Build(ctx context.Context, req BuildRequest) (string, error) {
	params := SessionParams{
		Mode:       sessionMode(req.Items),
		SuccessURL: b.siteURL + pathOrDefault(req.SuccessPath, defaultSuccessPath),
		CancelURL:  b.siteURL + pathOrDefault(req.CancelPath, defaultCancelPath),
		CouponID:   req.CouponCode,
		Metadata:   sessionMetadata(req),
	}

	for _, item := range req.Items {
		qty, _ := item.WholeQuantity()
		params.LineItems = append(params.LineItems, SessionLineItem{
			PriceID:  item.PriceID,
			Quantity: qty,
		})
	}

	if req.UserID != "" {
		customer, err := b.client.FindOrCreateCustomer(ctx, req.Email, req.UserID)
		if err != nil {
			return "", fmt.Errorf("resolve customer: %w", err)
		}
		params.CustomerID = customer.ID
	}

	session, err := b.client.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.URL, nil
}

// sessionMode is "subscription" when any line item recurs, otherwise
// "payment". The processor rejects mixed carts before this point.
func sessionMode(items []domain.CartItem) string {
	for _, item := range items {
		if item.IsSubscription() {
			return "subscription"
		}
	}
	return "payment"
}

func sessionMetadata(req BuildRequest) map[string]string {
	md := map[string]string{}
	if req.UserID != "" {
		md["userId"] = req.UserID
	}
	var priceIDs, tiers, sizes []string
	for _, item := range req.Items {
		priceIDs = append(priceIDs, item.PriceID)
		if item.TierKey != "" {
			tiers = append(tiers, item.TierKey)
		}
		if item.SizeKey != "" {
			sizes = append(sizes, item.SizeKey)
		}
	}
	md["priceIds"] = strings.Join(priceIDs, ",")
	if len(tiers) > 0 {
		md["tierKeys"] = strings.Join(tiers, ",")
	}
	if len(sizes) > 0 {
		md["sizeKeys"] = strings.Join(sizes, ",")
	}
	return md
}

func pathOrDefault(path, fallback string) string {
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
