package mockapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rafalstore/storefront/internal/hash"
	"github.com/rafalstore/storefront/internal/logging"
)

const tokenTTL = 24 * time.Hour

func (s *Server) RegisterUser(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "register")
	var req struct {
		Username string `json:"username"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Phone == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phone and password are required")
	}

	var existing User
	if err := s.DB.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash the password")
	}

	user := User{
		Username:     req.Username,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: pwHash,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("user registered", "user_id", user.ID, "phone", user.Phone)
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (s *Server) Login(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "login")
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user User
	if err := s.DB.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		l.Warn("login failed", "reason", "unknown phone")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid phone or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login failed", "reason", "bad password", "user_id", user.ID)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid phone or password")
	}

	exp := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"phone": user.Phone,
		"exp":   exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}

	l.Info("user logged in", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// userFromBearer authenticates the Authorization header against the
// signing secret and loads the user it names.
func (s *Server) userFromBearer(c echo.Context) (*User, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var user User
	if err := s.DB.First(&user, uint(sub)).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}
	return &user, nil
}
