package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rafalstore/storefront/internal/logging"
)

func (s *Server) Checkout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "checkout")
	var req struct {
		SessionKey    string `json:"session_key"`
		Phone         string `json:"phone"`
		ShippingAddr  string `json:"shipping_address"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.SessionKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_key is required")
	}

	var userID uint
	if user, err := s.userFromBearer(c); err == nil {
		userID = user.ID
	}

	var cart Cart
	if err := s.DB.Where("session_key = ?", req.SessionKey).First(&cart).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no cart for session")
	}

	var order Order
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var items []CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if len(items) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
		}

		var (
			total      float64
			orderItems []OrderItem
		)
		for _, it := range items {
			var p Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "product not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			total += p.Price * float64(it.Quantity)
			orderItems = append(orderItems, OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  it.Quantity,
			})
		}

		order = Order{
			UserID:      userID,
			Status:      "new",
			Total:       total,
			DeliveryFee: deliveryFor(total),
			CreatedAt:   time.Now().Unix(),
			Items:       orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	l.Info("order created", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (s *Server) CheckoutNow(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "checkout_now")
	var req struct {
		ProductID any    `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Phone     string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	productID, ok := asUint(req.ProductID)
	if !ok || productID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var userID uint
	if user, err := s.userFromBearer(c); err == nil {
		userID = user.ID
	}

	var product Product
	if err := s.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	total := product.Price * float64(req.Quantity)
	order := Order{
		UserID:      userID,
		Status:      "new",
		Total:       total,
		DeliveryFee: deliveryFor(total),
		CreatedAt:   time.Now().Unix(),
		Items: []OrderItem{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  req.Quantity,
		}},
	}
	if err := s.DB.Create(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	l.Info("direct order created", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (s *Server) OrderHistory(c echo.Context) error {
	user, err := s.userFromBearer(c)
	if err != nil {
		return err
	}

	var orders []Order
	if err := s.DB.Preload("Items").Where("user_id = ?", user.ID).Order("id desc").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"results": orders})
}

func (s *Server) OrderDetails(c echo.Context) error {
	user, err := s.userFromBearer(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var order Order
	if err := s.DB.Preload("Items").Where("id = ? AND user_id = ?", id, user.ID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}
