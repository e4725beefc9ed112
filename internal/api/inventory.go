package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pankajredekar/shopadmin/internal/models"
)

func (s *Server) listInventory(c echo.Context) error {
	q := newQueryParams(c)
	filter := models.InventoryFilter{
		CategoryID: q.Uint("category_id"),
		Page:       q.Page(),
	}
	if err := q.Err(); err != nil {
		return err
	}

	rows, err := s.store.ListInventory(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) lowStock(c echo.Context) error {
	q := newQueryParams(c)
	filter := models.LowStockFilter{
		Threshold:  q.Int("threshold"),
		CategoryID: q.Uint("category_id"),
	}
	if err := q.Err(); err != nil {
		return err
	}

	rows, err := s.store.LowStock(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) adjustInventory(c echo.Context) error {
	productID, err := pathID(c, "product_id")
	if err != nil {
		return err
	}
	var adj models.InventoryAdjustment
	if err := bind(c, &adj); err != nil {
		return err
	}

	inventory, err := s.store.AdjustInventory(c.Request().Context(), productID, adj)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inventory)
}

func (s *Server) inventoryHistory(c echo.Context) error {
	productID, err := pathID(c, "product_id")
	if err != nil {
		return err
	}
	q := newQueryParams(c)
	page := q.Page()
	if err := q.Err(); err != nil {
		return err
	}

	history, err := s.store.InventoryHistory(c.Request().Context(), productID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}
