package repositories

import (
	"context"
	"fmt"

	"catalog-aggregator-backend/products/models"
	"catalog-aggregator-backend/utils"

	"go.uber.org/zap"
)

// ProductSource is the upstream call the repository depends on.
type ProductSource interface {
	ListCompanyProducts(ctx context.Context, company, category string, filters map[string]string) ([]byte, error)
}

type CatalogRepository interface {
	GetCategoryProducts(ctx context.Context, partition, category string, filters map[string]string) ([]models.Product, error)
}

type catalogRepository struct {
	source ProductSource
	cache  ProductCache
	logger *zap.Logger
}

func NewCatalogRepository(source ProductSource, cache ProductCache, logger *zap.Logger) CatalogRepository {
	if cache == nil {
		cache = noopProductCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &catalogRepository{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// GetCategoryProducts returns one partition's listing for a category. Successful
// upstream bodies are cached; cache errors are logged and never fail the call.
func (r *catalogRepository) GetCategoryProducts(ctx context.Context, partition, category string, filters map[string]string) ([]models.Product, error) {
	key := cacheKey(partition, category, filters)

	if raw, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("Product cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		products, decErr := models.DecodeProducts(raw)
		if decErr == nil {
			return products, nil
		}
		r.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(decErr))
	}

	body, err := r.source.ListCompanyProducts(ctx, partition, category, filters)
	if err != nil {
		return nil, err
	}

	products, err := models.DecodeProducts(body)
	if err != nil {
		return nil, fmt.Errorf("partition %s: %w", partition, err)
	}

	if err := r.cache.Set(ctx, key, body); err != nil {
		r.logger.Warn("Product cache write failed", zap.String("key", key), zap.Error(err))
	}

	return products, nil
}

func cacheKey(partition, category string, filters map[string]string) string {
	params := map[string]string{
		"partition": partition,
		"category":  category,
	}
	for k, v := range filters {
		if v != "" {
			params["filter."+k] = v
		}
	}
	return utils.GenerateHash(ProductCacheResource, params)
}
