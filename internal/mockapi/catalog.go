package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const defaultPageSize = 50

func (s *Server) ListProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	q := s.DB.Model(&Product{})
	if category := c.QueryParam("category"); category != "" {
		q = q.Where("category_id = ?", category)
	}
	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var products []Product
	if err := q.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := echo.Map{
		"count":   count,
		"results": products,
	}
	if int64(page*pageSize) < count {
		resp["next"] = fmt.Sprintf("/products/?page=%d&page_size=%d", page+1, pageSize)
	}
	if page > 1 {
		resp["previous"] = fmt.Sprintf("/products/?page=%d&page_size=%d", page-1, pageSize)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var product Product
	if err := s.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

func (s *Server) FeaturedProducts(c echo.Context) error {
	return s.listWhere(c, "is_offer = ?", true)
}

func (s *Server) BestSellerProducts(c echo.Context) error {
	return s.listWhere(c, "is_best_seller = ?", true)
}

func (s *Server) listWhere(c echo.Context, query string, args ...any) error {
	var products []Product
	if err := s.DB.Where(query, args...).Order("id").Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":   len(products),
		"results": products,
	})
}

func (s *Server) ListCategories(c echo.Context) error {
	var categories []Category
	if err := s.DB.Order(`"order"`).Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, categories)
}
