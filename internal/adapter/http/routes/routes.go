package routes

import (
	"legacy_portal/internal/adapter/http/handlers"
	"legacy_portal/internal/adapter/http/middleware"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Quote         *handlers.QuoteHandler
	Coupon        *handlers.CouponHandler
	Checkout      *handlers.CheckoutHandler
	Order         *handlers.OrderHandler
	Certification *handlers.CertificationHandler
}

// NewRouter builds the gin engine. Back office routes require a bearer token
// signed with jwtSecret and an admin or pm role.
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// public
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPublicRoutes(v1, h)

	// back office
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, middleware.RoleAdmin, middleware.RolePM))
	addBackOfficeRoutes(protected, h)

	return router
}

// Run will start the server
func Run(router *gin.Engine, port int) {
	err := router.Run(":" + strconv.Itoa(port))
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func setMiddlewares(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
