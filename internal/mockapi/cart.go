package mockapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func (s *Server) GetCart(c echo.Context) error {
	key := c.QueryParam("session_key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_key is required")
	}

	cart, err := s.findOrCreateCart(key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return s.respondCart(c, cart)
}

func (s *Server) AddToCart(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Quantity   int    `json:"quantity"`
		SessionKey string `json:"session_key"`
		ColorID    uint   `json:"color_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.SessionKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_key is required")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product Product
	if err := s.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	cart, err := s.findOrCreateCart(req.SessionKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var item CartItem
	tx := s.DB.Where("cart_id = ? AND product_id = ? AND color_id = ?", cart.ID, product.ID, req.ColorID).First(&item)
	if tx.Error == nil {
		item.Quantity += req.Quantity
		if err := s.DB.Save(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return s.respondCart(c, cart)
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, tx.Error.Error())
	}

	item = CartItem{CartID: cart.ID, ProductID: product.ID, ColorID: req.ColorID, Quantity: req.Quantity}
	if err := s.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return s.respondCart(c, cart)
}

func (s *Server) RemoveFromCart(c echo.Context) error {
	cart, err := s.cartFromPath(c)
	if err != nil {
		return err
	}

	var req struct {
		CartItemID any `json:"cartitem_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	itemID, ok := asUint(req.CartItemID)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cartitem_id")
	}

	result := s.DB.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&CartItem{})
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return s.respondCart(c, cart)
}

func (s *Server) UpdateQuantity(c echo.Context) error {
	cart, err := s.cartFromPath(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID any `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	productID, ok := asUint(req.ProductID)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	var item CartItem
	if err := s.DB.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Quantity <= 0 {
		if err := s.DB.Delete(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return s.respondCart(c, cart)
	}

	item.Quantity = req.Quantity
	if err := s.DB.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return s.respondCart(c, cart)
}

func (s *Server) ClearCart(c echo.Context) error {
	cart, err := s.cartFromPath(c)
	if err != nil {
		return err
	}
	if err := s.DB.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return s.respondCart(c, cart)
}

func (s *Server) findOrCreateCart(sessionKey string) (*Cart, error) {
	var cart Cart
	err := s.DB.Where("session_key = ?", sessionKey).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = Cart{SessionKey: sessionKey}
	if err := s.DB.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// cartFromPath resolves the cart by path id, falling back to the session
// key when the path id doesn't match a cart.
func (s *Server) cartFromPath(c echo.Context) (*Cart, error) {
	key := c.QueryParam("session_key")
	if id, err := strconv.Atoi(c.Param("cartID")); err == nil && id > 0 {
		var cart Cart
		if err := s.DB.First(&cart, id).Error; err == nil {
			return &cart, nil
		}
	}
	if key == "" {
		return nil, echo.NewHTTPError(http.StatusNotFound, "cart not found")
	}
	cart, err := s.findOrCreateCart(key)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return cart, nil
}

// respondCart renders the enveloped cart shape the real backend uses.
func (s *Server) respondCart(c echo.Context, cart *Cart) error {
	var items []CartItem
	if err := s.DB.Where("cart_id = ?", cart.ID).Order("id").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var (
		subtotal  float64
		itemCount int
		rendered  = make([]echo.Map, 0, len(items))
	)
	for _, it := range items {
		var p Product
		if err := s.DB.First(&p, it.ProductID).Error; err != nil {
			continue
		}
		subtotal += p.Price * float64(it.Quantity)
		itemCount += it.Quantity
		rendered = append(rendered, echo.Map{
			"id":       it.ID,
			"quantity": it.Quantity,
			"color_id": it.ColorID,
			"product": echo.Map{
				"id":    p.ID,
				"name":  p.Name,
				"price": p.Price,
				"image": p.Image,
			},
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"cart": echo.Map{
			"id":          cart.ID,
			"session_key": cart.SessionKey,
			"items":       rendered,
			"total_price": subtotal,
			"items_count": itemCount,
			"delivery":    deliveryFor(subtotal),
		},
	})
}

func asUint(v any) (uint, bool) {
	switch x := v.(type) {
	case float64:
		if x < 0 {
			return 0, false
		}
		return uint(x), true
	case string:
		n, err := strconv.Atoi(x)
		if err != nil || n < 0 {
			return 0, false
		}
		return uint(n), true
	default:
		return 0, false
	}
}
