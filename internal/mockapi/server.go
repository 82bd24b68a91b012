package mockapi

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// The delivery rule the production backend applies: orders at or above
// the threshold ship free, everything else pays the flat fee.
const (
	FreeDeliveryThreshold = 500.0
	DeliveryFee           = 50.0
)

type Server struct {
	DB        *gorm.DB
	JWTSecret []byte
	Log       *slog.Logger
}

func New(db *gorm.DB, jwtSecret []byte, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := db.AutoMigrate(&Product{}, &Category{}, &Cart{}, &CartItem{}, &User{}, &Order{}, &OrderItem{}); err != nil {
		return nil, err
	}
	return &Server{DB: db, JWTSecret: jwtSecret, Log: log}, nil
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/cart/", s.GetCart)
	e.POST("/cart/add-to-cart/:id/", s.AddToCart)
	e.DELETE("/cart/:cartID/", s.RemoveFromCart)
	e.PATCH("/cart/:cartID/", s.UpdateQuantity)
	e.POST("/cart/:cartID/clear/", s.ClearCart)

	e.GET("/products/", s.ListProducts)
	e.GET("/products/featured/", s.FeaturedProducts)
	e.GET("/products/best_sellers/", s.BestSellerProducts)
	e.GET("/products/:id/", s.GetProduct)
	e.GET("/category/", s.ListCategories)

	e.POST("/api/login/", s.Login)
	e.POST("/api/register/", s.RegisterUser)
	e.POST("/api/orders/checkout/", s.Checkout)
	e.POST("/api/orders/checkout_now/", s.CheckoutNow)
	e.GET("/api/orders/history/", s.OrderHistory)
	e.GET("/api/orders/history/:id/", s.OrderDetails)
}

// Seed loads a small catalog so a fresh database is browsable.
func (s *Server) Seed() error {
	var count int64
	if err := s.DB.Model(&Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []Category{
		{Name: "Personal Care", IsActive: true, Order: 1},
		{Name: "Kitchen Appliances", IsActive: true, Order: 2},
		{Name: "Home Appliances", IsActive: true, Order: 3},
	}
	if err := s.DB.Create(&categories).Error; err != nil {
		return err
	}

	products := []Product{
		{Name: "RAFAL Professional Hair Dryer", Price: 1600, Image: "/media/hair-dryer.jpg", CategoryID: categories[0].ID, Rating: 4.5, Reviews: 120, Stock: 25, IsBestSeller: true},
		{Name: "RAFAL Stand Mixer 1000W", Price: 2450, OriginalPrice: 2900, Image: "/media/stand-mixer.jpg", CategoryID: categories[1].ID, Rating: 4.7, Reviews: 86, Stock: 10, IsOffer: true},
		{Name: "RAFAL Electric Kettle 1.7L", Price: 350, Image: "/media/kettle.jpg", CategoryID: categories[1].ID, Rating: 4.2, Reviews: 201, Stock: 60},
		{Name: "RAFAL Vacuum Cleaner 1800W", Price: 1150, Image: "/media/vacuum.jpg", CategoryID: categories[2].ID, Rating: 4.4, Reviews: 64, Stock: 18, IsBestSeller: true},
		{Name: "RAFAL Air Fryer 5.5L", Price: 980, OriginalPrice: 1200, Image: "/media/air-fryer.jpg", CategoryID: categories[1].ID, Rating: 4.8, Reviews: 155, Stock: 32, IsOffer: true},
	}
	if err := s.DB.Create(&products).Error; err != nil {
		return err
	}
	s.Log.Info("catalog seeded", "products", len(products), "categories", len(categories))
	return nil
}

func deliveryFor(subtotal float64) float64 {
	if subtotal >= FreeDeliveryThreshold {
		return 0
	}
	return DeliveryFee
}
