package handlers

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/roomhaven/roomhaven-backend/internal/booking"
	"github.com/roomhaven/roomhaven-backend/internal/models"
	"github.com/roomhaven/roomhaven-backend/internal/payments"
	"github.com/roomhaven/roomhaven-backend/internal/services"
	"github.com/roomhaven/roomhaven-backend/pkg/utils"
)

type CheckoutSessionInput struct {
	BookingReference string `json:"bookingReference" binding:"required"`
}

// CreateCheckoutSession creates a fresh checkout for a pending booking,
// letting a guest retry payment after an abandoned or failed attempt.
func CreateCheckoutSession(engine *booking.Engine, gateway booking.PaymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CheckoutSessionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		b, err := engine.BookingByReference(input.BookingReference)
		if err != nil {
			c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		if b.Status != models.BookingStatusPending {
			c.JSON(409, gin.H{"error": "Booking is not awaiting payment"})
			return
		}

		url, err := gateway.CreateCheckoutSession(b.TotalPrice, "usd", b.BookingReference)
		if err != nil {
			c.JSON(502, gin.H{"error": "Failed to create checkout session"})
			return
		}

		c.JSON(200, gin.H{"checkoutUrl": url})
	}
}

// StripeWebhook handles verified payment events from Stripe. Unknown
// booking references are acknowledged without side effects so Stripe
// stops retrying.
func StripeWebhook(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid payload"})
			return
		}

		completed, err := payments.VerifyCompletedCheckout(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if completed == nil {
			c.JSON(200, gin.H{"status": "success"})
			return
		}

		if err := engine.HandlePaymentCompleted(completed.BookingReference); err != nil {
			c.JSON(500, gin.H{"error": "Failed to process payment event"})
			return
		}

		if err := services.InvalidateRoomCache(c.Request.Context()); err != nil {
			log.Printf("Failed to invalidate room cache: %v", err)
		}

		// Confirm to the payer by email; failure only logs.
		if completed.PayerEmail != "" {
			go func(email, ref string) {
				if err := utils.SendBookingConfirmedEmail(email, ref); err != nil {
					log.Printf("Failed to send confirmation email: %v", err)
				}
			}(completed.PayerEmail, completed.BookingReference)
		}

		c.JSON(200, gin.H{"status": "success"})
	}
}

// PaymentSuccess is the browser redirect target after a completed
// checkout. The webhook is authoritative; this confirms eagerly so the
// guest sees the final state right away.
func PaymentSuccess(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Query("booking")
		if ref != "" {
			if err := engine.HandlePaymentCompleted(ref); err != nil {
				log.Printf("Failed to confirm booking %s: %v", ref, err)
			}
			if err := services.InvalidateRoomCache(c.Request.Context()); err != nil {
				log.Printf("Failed to invalidate room cache: %v", err)
			}
		}
		c.JSON(200, gin.H{"status": "success", "bookingReference": ref})
	}
}

// PaymentCancel is the browser redirect target after an abandoned
// checkout; the pending booking is cancelled.
func PaymentCancel(engine *booking.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Query("booking")
		if ref != "" {
			if err := engine.HandlePaymentCancelled(ref); err != nil {
				log.Printf("Failed to cancel booking %s: %v", ref, err)
			}
		}
		c.JSON(200, gin.H{"status": "cancelled", "bookingReference": ref})
	}
}
