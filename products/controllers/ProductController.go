package controllers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	upstream "catalog-aggregator-backend/internal/services"
	"catalog-aggregator-backend/products/models"
	"catalog-aggregator-backend/products/repositories"
	"catalog-aggregator-backend/products/requests"
	"catalog-aggregator-backend/products/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductService interface {
	ListCategoryProducts(ctx context.Context, category string, q requests.ProductQuery) (*services.CategoryPage, error)
	FindProductByID(ctx context.Context, id string) (models.Product, error)
}

type ProductController struct {
	Products ProductService
	Cache    repositories.ProductCache
	Logger   *zap.Logger
}

// GetCategoryProductsController serves one page of the merged category listing.
func (pc *ProductController) GetCategoryProductsController(c *fiber.Ctx) error {
	category := c.Params("categoryname")
	query := requests.ParseProductQuery(c)
	ctx := upstream.WithAuthorization(c.UserContext(), c.Get(fiber.HeaderAuthorization))

	page, err := pc.Products.ListCategoryProducts(ctx, category, query)
	if err != nil {
		pc.Logger.Error("Failed to list category products",
			zap.String("category", category),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("X-Total-Count", strconv.Itoa(page.Total))
	if len(page.Failures) > 0 {
		failed := make([]string, 0, len(page.Failures))
		for _, f := range page.Failures {
			failed = append(failed, f.Partition)
		}
		c.Set("X-Partition-Failures", strings.Join(failed, ","))
	}

	return c.Status(fiber.StatusOK).JSON(page.Products)
}

// GetProductByIDController looks a single product up across the partitions.
func (pc *ProductController) GetProductByIDController(c *fiber.Ctx) error {
	id := c.Params("id")
	ctx := upstream.WithAuthorization(c.UserContext(), c.Get(fiber.HeaderAuthorization))

	product, err := pc.Products.FindProductByID(ctx, id)
	if errors.Is(err, services.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	if err != nil {
		pc.Logger.Error("Failed to look up product", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

// FlushCacheController drops every cached partition listing.
func (pc *ProductController) FlushCacheController(c *fiber.Ctx) error {
	if pc.Cache == nil || !pc.Cache.Enabled() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Cache disabled", "deleted": 0})
	}

	deleted, err := pc.Cache.Flush(c.UserContext())
	if err != nil {
		pc.Logger.Error("Failed to flush product cache", zap.Int("deleted", deleted), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to flush product cache"})
	}

	pc.Logger.Info("Product cache flushed", zap.Int("deleted", deleted))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Product cache flushed", "deleted": deleted})
}
