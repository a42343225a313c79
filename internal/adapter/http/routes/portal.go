package routes

import (
	"github.com/gin-gonic/gin"
)

const (
	PathQuotes         = "/quotes"
	PathCoupons        = "/coupons"
	PathCheckout       = "/checkout"
	PathWebhooks       = "/webhooks"
	PathAssignments    = "/assignments"
	PathCertifications = "/certifications"
	PathOrders         = "/orders"
)

// addPublicRoutes mounts what customers, translators and the payment
// gateway call without a token.
func addPublicRoutes(rg *gin.RouterGroup, h Handlers) {
	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", h.Quote.CreateQuote)
		quotes.GET("/:id", h.Quote.GetQuote)
	}

	rg.POST(PathCoupons+"/validate", h.Coupon.ValidateCoupon)

	checkout := rg.Group(PathCheckout)
	{
		checkout.POST("", h.Checkout.CreateCheckout)
		checkout.GET("/:transaction_id/status", h.Checkout.GetStatus)
	}

	rg.POST(PathWebhooks+"/payments", h.Checkout.PaymentWebhook)
	rg.GET(PathAssignments+"/respond", h.Order.RespondToAssignment)
	rg.GET(PathCertifications+"/:id/verify", h.Certification.Verify)
}

func addBackOfficeRoutes(rg *gin.RouterGroup, h Handlers) {
	orders := rg.Group(PathOrders)
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", h.Order.ListOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PATCH("/:id/translation-status", h.Order.AdvanceTranslation)
		orders.POST("/:id/mark-paid", h.Order.MarkPaid)
		orders.POST("/:id/assign-pm", h.Order.AssignPM)
		orders.POST("/:id/assign-translator", h.Order.AssignTranslator)
	}

	coupons := rg.Group(PathCoupons)
	{
		coupons.POST("", h.Coupon.CreateCoupon)
		coupons.GET("", h.Coupon.ListCoupons)
		coupons.GET("/:code", h.Coupon.GetCoupon)
		coupons.PATCH("/:code/deactivate", h.Coupon.DeactivateCoupon)
		coupons.POST("/:code/apply", h.Coupon.ApplyCoupon)
	}

	certifications := rg.Group(PathCertifications)
	{
		certifications.POST("", h.Certification.Issue)
		certifications.PATCH("/:id/revoke", h.Certification.Revoke)
	}
}
