package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-aggregator-backend/products/models"
	"catalog-aggregator-backend/products/repositories"
	"catalog-aggregator-backend/products/requests"
	"catalog-aggregator-backend/utils/pagination"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type FanoutMode string

const (
	// FanoutStrict fails the listing when any partition fails.
	FanoutStrict FanoutMode = "strict"
	// FanoutPartial serves the partitions that answered and reports the rest.
	FanoutPartial FanoutMode = "partial"
)

var ErrProductNotFound = errors.New("product not found")

// PartitionError is a failed fetch from one partition. Its message is the upstream
// message so callers see the raw cause.
type PartitionError struct {
	Partition string
	Err       error
}

func (e *PartitionError) Error() string { return e.Err.Error() }
func (e *PartitionError) Unwrap() error { return e.Err }

type PartitionFailure struct {
	Partition string `json:"partition"`
	Error     string `json:"error"`
}

type CategoryPage struct {
	Products []models.Product
	Total    int
	Page     int
	PageSize int
	Failures []PartitionFailure
}

type AggregatorConfig struct {
	Partitions       []string
	LookupCategories []string
	PageSizeCap      int
	Mode             FanoutMode
	// MaxConcurrency bounds in-flight partition fetches; <= 0 means one per partition.
	MaxConcurrency int
}

type ProductAggregator struct {
	repo   repositories.CatalogRepository
	cfg    AggregatorConfig
	logger *zap.Logger
	tracer trace.Tracer
}

func NewProductAggregator(repo repositories.CatalogRepository, cfg AggregatorConfig, logger *zap.Logger) *ProductAggregator {
	if cfg.PageSizeCap <= 0 {
		cfg.PageSizeCap = 10
	}
	if cfg.Mode == "" {
		cfg.Mode = FanoutStrict
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductAggregator{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("catalog-aggregator-backend/products"),
	}
}

// ListCategoryProducts fans out to every partition, merges the listings in partition
// order, optionally sorts them and returns the requested page.
func (a *ProductAggregator) ListCategoryProducts(ctx context.Context, category string, q requests.ProductQuery) (*CategoryPage, error) {
	ctx, span := a.tracer.Start(ctx, "products.list_category",
		trace.WithAttributes(
			attribute.String("catalog.category", category),
			attribute.String("catalog.fanout_mode", string(a.cfg.Mode)),
		),
	)
	defer span.End()

	started := time.Now()
	results, err := a.fetchPartitions(ctx, category, q.UpstreamFilters())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var merged []models.Product
	var failures []PartitionFailure
	for i, res := range results {
		if res.err != nil {
			failures = append(failures, PartitionFailure{Partition: a.cfg.Partitions[i], Error: res.err.Error()})
			continue
		}
		merged = append(merged, res.products...)
	}

	if len(failures) > 0 && len(failures) == len(results) {
		err := fmt.Errorf("all partitions failed: %w", results[0].err)
		span.RecordError(err)
		return nil, err
	}

	if q.SortRequested() {
		SortProducts(merged, q.Sort, q.Ascending())
	}

	params := pagination.ResolvePaginationParams(q.Top, q.Page, a.cfg.PageSizeCap)
	page := &CategoryPage{
		Products: pagination.Slice(merged, params),
		Total:    len(merged),
		Page:     params.Page,
		PageSize: params.PageSize,
		Failures: failures,
	}

	a.logger.Debug("Category listing aggregated",
		zap.String("category", category),
		zap.Int("total", page.Total),
		zap.Int("returned", len(page.Products)),
		zap.Int("failed_partitions", len(failures)),
		zap.Duration("elapsed", time.Since(started)),
	)
	span.SetAttributes(attribute.Int("catalog.total", page.Total))
	return page, nil
}

type partitionResult struct {
	products []models.Product
	err      error
}

// fetchPartitions issues one fetch per partition concurrently. Results are indexed
// by partition position. In strict mode the first failure cancels the other
// fetches and is returned; in partial mode failures are recorded per partition.
func (a *ProductAggregator) fetchPartitions(ctx context.Context, category string, filters map[string]string) ([]partitionResult, error) {
	results := make([]partitionResult, len(a.cfg.Partitions))
	strict := a.cfg.Mode != FanoutPartial

	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.MaxConcurrency > 0 {
		g.SetLimit(a.cfg.MaxConcurrency)
	}

	for i, partition := range a.cfg.Partitions {
		i, partition := i, partition
		g.Go(func() error {
			products, err := a.repo.GetCategoryProducts(gctx, partition, category, filters)
			if err != nil {
				a.logger.Warn("Partition fetch failed",
					zap.String("partition", partition),
					zap.String("category", category),
					zap.Error(err),
				)
				perr := &PartitionError{Partition: partition, Err: err}
				results[i].err = perr
				if strict {
					return perr
				}
				return nil
			}
			results[i].products = products
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FindProductByID scans the lookup categories in order and, within each, the
// partitions in order. The first listing containing the id wins. Failing fetches
// are skipped.
func (a *ProductAggregator) FindProductByID(ctx context.Context, id string) (models.Product, error) {
	ctx, span := a.tracer.Start(ctx, "products.find_by_id", trace.WithAttributes(attribute.String("catalog.product_id", id)))
	defer span.End()

	for _, category := range a.cfg.LookupCategories {
		for _, partition := range a.cfg.Partitions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			products, err := a.repo.GetCategoryProducts(ctx, partition, category, nil)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				a.logger.Debug("Skipping partition during id lookup",
					zap.String("partition", partition),
					zap.String("category", category),
					zap.Error(err),
				)
				continue
			}

			for _, p := range products {
				if p.ID() == id {
					span.SetAttributes(
						attribute.String("catalog.partition", partition),
						attribute.String("catalog.category", category),
					)
					return p, nil
				}
			}
		}
	}

	return nil, ErrProductNotFound
}
