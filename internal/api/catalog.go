package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pankajredekar/shopadmin/internal/models"
)

func (s *Server) listProducts(c echo.Context) error {
	q := newQueryParams(c)
	filter := models.ProductFilter{
		CategoryID: q.Uint("category_id"),
		Name:       q.String("name"),
		Page:       q.Page(),
	}
	if err := q.Err(); err != nil {
		return err
	}

	products, err := s.store.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := s.store.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (s *Server) createProduct(c echo.Context) error {
	var in models.ProductCreate
	if err := bind(c, &in); err != nil {
		return err
	}
	product, err := s.store.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in models.ProductUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	product, err := s.store.UpdateProduct(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listCategories(c echo.Context) error {
	q := newQueryParams(c)
	page := q.Page()
	if err := q.Err(); err != nil {
		return err
	}

	categories, err := s.store.ListCategories(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (s *Server) getCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	category, err := s.store.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (s *Server) createCategory(c echo.Context) error {
	var in models.CategoryCreate
	if err := bind(c, &in); err != nil {
		return err
	}
	category, err := s.store.CreateCategory(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (s *Server) updateCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in models.CategoryUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	category, err := s.store.UpdateCategory(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listCustomers(c echo.Context) error {
	q := newQueryParams(c)
	filter := models.CustomerFilter{
		Query: q.String("q"),
		Page:  q.Page(),
	}
	if err := q.Err(); err != nil {
		return err
	}

	customers, err := s.store.ListCustomers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

func (s *Server) getCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	customer, err := s.store.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

func (s *Server) createCustomer(c echo.Context) error {
	var in models.CustomerCreate
	if err := bind(c, &in); err != nil {
		return err
	}
	customer, err := s.store.CreateCustomer(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

func (s *Server) updateCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in models.CustomerUpdate
	if err := bind(c, &in); err != nil {
		return err
	}
	customer, err := s.store.UpdateCustomer(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

func (s *Server) deleteCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteCustomer(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
