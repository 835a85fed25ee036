// Package payments wraps the Stripe hosted-checkout flow. The engine
// only sees the PaymentGateway port; this is the concrete collaborator
// behind it plus the webhook verification used by the payments handler.
package payments

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

const metadataBookingReference = "booking_reference"

// StripeGateway creates Stripe Checkout sessions carrying the booking
// reference as correlation metadata.
type StripeGateway struct {
	SuccessURL string
	CancelURL  string
}

// NewStripeGateway configures the Stripe client from the environment.
func NewStripeGateway() *StripeGateway {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &StripeGateway{
		SuccessURL: baseURL + "/api/payments/success",
		CancelURL:  baseURL + "/api/payments/cancel",
	}
}

// CreateCheckoutSession returns the redirect URL the payer should be
// sent to. The booking reference rides along in the session metadata
// and in the success/cancel redirect targets.
func (g *StripeGateway) CreateCheckoutSession(amount float64, currency, bookingReference string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(int64(amount * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Hotel Reservation " + bookingReference),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.SuccessURL + "?booking=" + bookingReference),
		CancelURL:  stripe.String(g.CancelURL + "?booking=" + bookingReference),
	}
	params.AddMetadata(metadataBookingReference, bookingReference)

	s, err := session.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

// CompletedCheckout is the subset of a verified webhook event the
// booking engine cares about. PayerEmail is the address the guest gave
// Stripe at checkout and may be empty.
type CompletedCheckout struct {
	BookingReference string
	PayerEmail       string
}

// VerifyCompletedCheckout checks the webhook signature and, for
// checkout.session.completed events, extracts the booking reference.
// Other event types return (nil, nil) and should be acknowledged.
func VerifyCompletedCheckout(payload []byte, signatureHeader string) (*CompletedCheckout, error) {
	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	// The endpoint's pinned API version need not match the SDK's; the
	// fields read here exist in all of them.
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %v", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session: %v", err)
	}
	ref := sess.Metadata[metadataBookingReference]
	if ref == "" {
		return nil, nil
	}

	payerEmail := ""
	if sess.CustomerDetails != nil {
		payerEmail = sess.CustomerDetails.Email
	}
	return &CompletedCheckout{BookingReference: ref, PayerEmail: payerEmail}, nil
}
