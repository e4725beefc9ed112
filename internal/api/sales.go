package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pankajredekar/shopadmin/internal/models"
)

func (s *Server) listSales(c echo.Context) error {
	q := newQueryParams(c)
	filter := models.SaleFilter{
		StartDate:     q.Date("start_date"),
		EndDate:       q.Date("end_date"),
		Status:        models.SaleStatus(q.String("status")),
		CustomerID:    q.Uint("customer_id"),
		PaymentMethod: q.String("payment_method"),
		ProductID:     q.Uint("product_id"),
		CategoryID:    q.Uint("category_id"),
		Page:          q.Page(),
	}
	if err := q.Err(); err != nil {
		return err
	}

	sales, err := s.store.ListSales(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sales)
}

func (s *Server) getSale(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	sale, err := s.store.GetSale(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sale)
}

func (s *Server) createSale(c echo.Context) error {
	var in models.SaleCreate
	if err := bind(c, &in); err != nil {
		return err
	}
	sale, err := s.store.CreateSale(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sale)
}

func (s *Server) updateSaleStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in models.SaleStatusUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	sale, err := s.store.UpdateSaleStatus(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sale)
}
