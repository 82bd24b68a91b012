// Package mockapi is a self-contained stand-in for the storefront API,
// used for local development and integration tests. It speaks the same
// wire shapes the production backend does, cart envelope included, so
// the normalization layer is exercised for real.
package mockapi

type Product struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	Image         string  `json:"image"`
	CategoryID    uint    `json:"category_id"`
	Rating        float64 `json:"rating"`
	Reviews       int     `json:"reviews"`
	Stock         int     `json:"stock"`
	IsOffer       bool    `json:"is_offer"`
	IsBestSeller  bool    `json:"is_best_seller"`
}

type Category struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	IsActive bool   `json:"is_active"`
	Order    int    `json:"order"`
}

type Cart struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	SessionKey string     `json:"session_key" gorm:"index"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID"`
}

type CartItem struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CartID    uint `json:"-" gorm:"index"`
	ProductID uint `json:"-"`
	ColorID   uint `json:"color_id,omitempty"`
	Quantity  int  `json:"quantity"`
}

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username"`
	Phone        string `json:"phone" gorm:"uniqueIndex"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"-" gorm:"index"`
	Status      string      `json:"status"`
	Total       float64     `json:"total"`
	DeliveryFee float64     `json:"delivery"`
	CreatedAt   int64       `json:"created_at"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"-" gorm:"index"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
