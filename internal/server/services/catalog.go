package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/ads"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/products"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/repomanager"
)

// CatalogService serves the advertisement and product catalogs.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// ListAds returns active ads matching the filter.
func (s *CatalogService) ListAds(ctx context.Context, filter ads.ListFilter) ([]*models.Ad, error) {
	result, err := s.repomanager.Ads(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing ads: %v", err)
	}
	return result, nil
}

// GetAd returns the active ad with the given id.
func (s *CatalogService) GetAd(ctx context.Context, id int64) (*models.Ad, error) {
	ad, err := s.repomanager.Ads(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return ad, nil
}

// CreateAd inserts a new ad. Title and URL are required.
func (s *CatalogService) CreateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	if strings.TrimSpace(ad.Titulo) == "" || strings.TrimSpace(ad.URL) == "" {
		return nil, common.ErrorValidation
	}
	created, err := s.repomanager.Ads(s.db).Create(ctx, ad)
	if err != nil {
		return nil, fmt.Errorf("error creating ad: %v", err)
	}
	return created, nil
}

// ListProducts returns active products matching the filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter products.ListFilter) ([]*models.Product, error) {
	result, err := s.repomanager.Products(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %v", err)
	}
	return result, nil
}

// GetProduct returns the active product with the given id.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repomanager.Products(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return product, nil
}

// CreateProduct inserts a new product. Name is required.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if strings.TrimSpace(product.Nome) == "" {
		return nil, common.ErrorValidation
	}
	created, err := s.repomanager.Products(s.db).Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("error creating product: %v", err)
	}
	return created, nil
}
