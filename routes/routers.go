package routes

import (
	"net/http"

	"discounts/controllers"
	_ "discounts/docs"
	"discounts/services"
	"discounts/services/logger"
	"discounts/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the services behind the HTTP routes
type Dependencies struct {
	Listing   *services.ListingService
	Search    *services.SearchService
	Deals     *services.DealService
	Favorites *services.FavoriteService
	Coupons   *services.CouponService
	Clock     utils.Clock
	Log       logger.Logger
}

// NewDependencies wires every service onto one store. recent and images may be
// nil, which disables search history and image uploads.
func NewDependencies(store services.CatalogStore, recent services.RecentSearches, images services.ImageUploader, clock utils.Clock, log logger.Logger) Dependencies {
	return Dependencies{
		Listing:   services.NewListingService(store, log),
		Search:    services.NewSearchService(store, recent, log),
		Deals:     services.NewDealService(store, images, log),
		Favorites: services.NewFavoriteService(store, log),
		Coupons:   services.NewCouponService(store, log),
		Clock:     clock,
		Log:       log,
	}
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	homeController := controllers.NewHomeController(deps.Listing, deps.Clock, deps.Log)
	searchController := controllers.NewSearchController(deps.Search, deps.Clock, deps.Log)
	dealController := controllers.NewDealController(deps.Deals, deps.Clock, deps.Log)
	favoriteController := controllers.NewFavoriteController(deps.Favorites, deps.Log)
	couponController := controllers.NewCouponController(deps.Coupons, deps.Clock, deps.Log)

	router.GET("/", homeController.GetHome)
	router.GET("/category/:id", homeController.GetCategory)
	router.GET("/search", searchController.Search)

	router.POST("/deal/create", dealController.CreateDeal)
	router.GET("/deal/:id", dealController.GetDeal)
	router.PATCH("/deal/:id", dealController.PatchDeal)
	router.POST("/deal/:id/edit", dealController.EditDeal)
	router.POST("/deal/:id/delete", dealController.DeleteDeal)
	router.POST("/deal/:id/update_all", dealController.PatchDeal)
	router.POST("/deal/:id/update_description", dealController.UpdateDescription)
	router.POST("/deal/:id/image", dealController.UploadImage)
	router.POST("/deal/:id/favorite", favoriteController.ToggleFavorite)
	router.POST("/deal/:id/coupons", couponController.IssueCoupon)

	router.GET("/favorites", favoriteController.ListFavorites)
	router.GET("/coupons", couponController.ListCoupons)
	router.POST("/coupons/:code/redeem", couponController.RedeemCoupon)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
