package payments

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/hanamise/storefront/internal/config"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

const checkoutCompletedEvent = "checkout.session.completed"

// StripeGateway drives Stripe Checkout. The cart is round-tripped through
// session metadata so the webhook can rebuild order lines without another
// catalog lookup.
type StripeGateway struct {
	client *client.API
	cfg    config.StripeConfig
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	return &StripeGateway{
		client: client.New(cfg.SecretKey, nil),
		cfg:    cfg,
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, items []domain.OrderItem, couponCode string, discount int64) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyJPY)),
				UnitAmount: stripe.Int64(item.Price),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.ProductName),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"JP"}),
		},
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	cart, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cart metadata: %w", err)
	}
	params.AddMetadata("items", string(cart))
	if couponCode != "" {
		params.AddMetadata("coupon_code", couponCode)
	}

	if discount > 0 {
		coupon, err := g.client.Coupons.New(&stripe.CouponParams{
			AmountOff: stripe.Int64(discount),
			Currency:  stripe.String(string(stripe.CurrencyJPY)),
			Duration:  stripe.String(string(stripe.CouponDurationOnce)),
		})
		if err != nil {
			return "", fmt.Errorf("failed to create discount coupon: %w", err)
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(coupon.ID)},
		}
	}

	session, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.URL, nil
}

// VerifyEvent checks the webhook signature and flattens a completed checkout
// session. Events of other types return (nil, nil). Without a webhook secret
// configured the payload is trusted as-is, which is only acceptable in
// development.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*interfaces.CompletedSession, error) {
	var event stripe.Event
	if g.cfg.WebhookSecret != "" {
		verified, err := webhook.ConstructEvent(payload, signature, g.cfg.WebhookSecret)
		if err != nil {
			return nil, fmt.Errorf("webhook signature verification failed: %w", err)
		}
		event = verified
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	if event.Type != checkoutCompletedEvent {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session: %w", err)
	}

	completed := &interfaces.CompletedSession{
		SessionID:    session.ID,
		AmountTotal:  session.AmountTotal,
		DiscountCode: session.Metadata["coupon_code"],
	}

	if details := session.CustomerDetails; details != nil {
		completed.CustomerEmail = details.Email
		completed.CustomerName = details.Name
		completed.CustomerPhone = details.Phone
	}

	if shipping := session.ShippingDetails; shipping != nil && shipping.Address != nil {
		completed.ShippingAddress = &domain.Address{
			Line1:      shipping.Address.Line1,
			Line2:      shipping.Address.Line2,
			City:       shipping.Address.City,
			State:      shipping.Address.State,
			PostalCode: shipping.Address.PostalCode,
			Country:    shipping.Address.Country,
		}
	}

	if cart := session.Metadata["items"]; cart != "" {
		if err := json.Unmarshal([]byte(cart), &completed.Items); err != nil {
			return nil, fmt.Errorf("failed to parse cart metadata: %w", err)
		}
	}

	return completed, nil
}
