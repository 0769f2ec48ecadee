package routes

import (
	"github.com/WeedGo-Platform/checkout-service/config"
	"github.com/WeedGo-Platform/checkout-service/controllers"
	"github.com/WeedGo-Platform/checkout-service/database"
	"github.com/WeedGo-Platform/checkout-service/kafka"
	"github.com/WeedGo-Platform/checkout-service/logger"
	"github.com/WeedGo-Platform/checkout-service/middleware"
	"github.com/WeedGo-Platform/checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterCheckoutRoutes wires the engine together and mounts the API.
func RegisterCheckoutRoutes(
	r *gin.Engine,
	redisClient *redis.Client,
	producer kafka.ProducerAPI,
	cfg config.Config,
) error {
	sessions := database.NewSessionRepository(redisClient, cfg.SessionTTL)
	carts := services.NewCartClient(cfg.CartServiceURL)
	promotions := services.NewPromotionClient(cfg.PromotionServiceURL)
	pickup := services.NewPickupClient(cfg.PickupServiceURL)
	tokens := services.NewTokenClient(cfg.PaymentTokenURL)
	orders := services.NewOrderClient(cfg.OrderServiceURL)

	fulfillmentValidator, err := services.NewFulfillmentValidator(cfg.PostalCodePattern)
	if err != nil {
		return err
	}

	service := services.NewCheckoutService(
		sessions,
		carts,
		promotions,
		tokens,
		services.NewOrderSubmitter(orders, logger.Log),
		producer,
		services.PricingFromConfig(cfg),
		services.NewComplianceValidator(cfg.MinimumAge),
		fulfillmentValidator,
		services.NewPaymentValidator(),
		logger.Log,
	)

	controller := controllers.NewCheckoutController(service, pickup, logger.Log)

	api := r.Group("/checkout")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/start", controller.StartCheckout)
		api.GET("", controller.GetCheckout)
		api.PUT("/fulfillment", controller.SetFulfillment)
		api.PUT("/compliance", controller.SetCompliance)
		api.PUT("/contact", controller.SetContact)
		api.PUT("/payment", controller.SetPayment)
		api.PUT("/tip", controller.SetTip)
		api.POST("/advance", controller.Advance)
		api.POST("/back", controller.Back)
		api.POST("/discount", controller.ApplyDiscount)
		api.DELETE("/discount", controller.ClearDiscount)
		api.POST("/submit", controller.Submit)
		api.DELETE("", controller.AbandonCheckout)
	}

	locations := r.Group("/pickup-locations")
	locations.Use(middleware.AuthMiddleware())
	{
		locations.GET("", controller.GetPickupLocations)
	}

	return nil
}
