package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/product"
	"github.com/avelars/eventmerch-service/internal/product/dto"
	"github.com/avelars/eventmerch-service/pkg/cache"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/avelars/eventmerch-service/pkg/search"
	"github.com/avelars/eventmerch-service/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const productsIndex = "products"

const productsMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category_id": { "type": "keyword" },
			"is_active": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo    product.Repository
	cache   *cache.RedisClient
	es      *search.Client
	storage *storage.GCSStorage
	logger  logger.ZapLogger
}

// NewProductUseCase wires the catalog use case. es and storage may be nil,
// in which case search falls back to the database and image uploads fail.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, st *storage.GCSStorage, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:    repo,
		cache:   cache,
		es:      es,
		storage: st,
		logger:  log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	id := uuid.New().String()
	now := time.Now()

	var categoryID *string
	if input.CategoryID != "" {
		categoryID = &input.CategoryID
	}
	var description *string
	if input.Description != "" {
		description = &input.Description
	}

	p := &model.Product{
		BaseModel:         model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		CategoryID:        categoryID,
		Name:              input.Name,
		Description:       description,
		LowStockThreshold: input.LowStockThreshold,
		IsActive:          true,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	variants, err := uc.repo.ListVariants(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Variants = variants

	images, err := uc.repo.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Images = images

	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"query_string": map[string]interface{}{
					"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
					"fields": []string{"name^3", "description"},
				},
			},
			"from": (filters.Page - 1) * filters.PageSize,
		}
		if filters.PageSize > 0 {
			q["size"] = filters.PageSize
		}

		res, err := uc.es.Search(ctx, productsIndex, q)
		if err == nil {
			var esProducts []model.Product
			for _, hit := range res.Hits.Hits {
				var p model.Product
				if err := json.Unmarshal(hit.Source, &p); err == nil {
					esProducts = append(esProducts, p)
				}
			}
			return esProducts, res.Hits.Total.Value, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{
			Products: products,
			Count:    count,
		}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	p.Name = input.Name
	if input.Description != "" {
		desc := input.Description
		p.Description = &desc
	} else {
		p.Description = nil
	}
	p.LowStockThreshold = input.LowStockThreshold
	p.IsActive = input.IsActive
	if input.CategoryID != "" {
		catID := input.CategoryID
		p.CategoryID = &catID
	} else {
		p.CategoryID = nil
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // already gone
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productsIndex, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *productUseCase) AddVariant(ctx context.Context, input *dto.CreateVariantInput) (*model.ProductVariant, error) {
	p, err := uc.repo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	unique, err := uc.repo.IsSizeUnique(ctx, input.ProductID, input.SizeLabel, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, product.ErrSizeTaken
	}

	now := time.Now()
	v := &model.ProductVariant{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ProductID: input.ProductID,
		SizeLabel: input.SizeLabel,
		Quantity:  input.Quantity,
		Price:     input.Price,
		IsActive:  true,
	}

	if err := uc.repo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())

	return v, nil
}

func (uc *productUseCase) UpdateVariant(ctx context.Context, input *dto.UpdateVariantInput) (*model.ProductVariant, error) {
	v, err := uc.repo.FindVariantByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, product.ErrVariantNotFound
	}

	if v.SizeLabel != input.SizeLabel {
		unique, err := uc.repo.IsSizeUnique(ctx, v.ProductID, input.SizeLabel, v.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, product.ErrSizeTaken
		}
	}

	v.SizeLabel = input.SizeLabel
	v.Price = input.Price
	v.IsActive = input.IsActive
	v.UpdatedAt = time.Now()

	if err := uc.repo.UpdateVariant(ctx, v); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())

	return v, nil
}

func (uc *productUseCase) DeleteVariant(ctx context.Context, id string) error {
	v, err := uc.repo.FindVariantByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		return product.ErrVariantNotFound
	}

	if err := uc.repo.DeleteVariant(ctx, id); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background())

	return nil
}

func (uc *productUseCase) ListVariants(ctx context.Context, productID string) ([]model.ProductVariant, error) {
	return uc.repo.ListVariants(ctx, productID)
}

func (uc *productUseCase) UploadImage(ctx context.Context, input *dto.UploadImageInput) (*model.ProductImage, error) {
	p, err := uc.repo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	if uc.storage == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}

	id := uuid.New().String()
	objectName := fmt.Sprintf("products/%s/%s-%s", input.ProductID, id[:8], path.Base(input.FileName))

	url, err := uc.storage.Upload(ctx, objectName, input.ContentType, input.Data)
	if err != nil {
		return nil, err
	}

	img := &model.ProductImage{
		ID:         id,
		ProductID:  input.ProductID,
		URL:        url,
		ObjectName: objectName,
		SortOrder:  input.SortOrder,
		CreatedAt:  time.Now(),
	}

	if err := uc.repo.AddImage(ctx, img); err != nil {
		// keep the store and the bucket consistent
		if delErr := uc.storage.Delete(ctx, objectName); delErr != nil {
			uc.logger.Warn("orphaned image object", zap.String("object", objectName), zap.Error(delErr))
		}
		return nil, err
	}

	return img, nil
}

func (uc *productUseCase) DeleteImage(ctx context.Context, id string) error {
	img, err := uc.repo.FindImageByID(ctx, id)
	if err != nil {
		return err
	}
	if img == nil {
		return product.ErrImageNotFound
	}

	if err := uc.repo.DeleteImage(ctx, id); err != nil {
		return err
	}

	if uc.storage != nil {
		if err := uc.storage.Delete(ctx, img.ObjectName); err != nil {
			uc.logger.Warn("failed to delete image object", zap.String("object", img.ObjectName), zap.Error(err))
		}
	}

	return nil
}

func (uc *productUseCase) ListLowStock(ctx context.Context, page, pageSize int) ([]dto.LowStockRow, int, error) {
	return uc.repo.ListLowStock(ctx, page, pageSize)
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	_ = uc.es.CreateIndex(ctx, productsIndex, productsMapping)

	if err := uc.es.Index(ctx, productsIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}
