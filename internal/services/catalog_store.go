package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/abstore/internal/models"
)

var (
	errMissingFields   = NewClientError(ErrValidation, "Missing required fields")
	errProductNotFound = NewClientError(ErrNotFound, "Product not found")
)

// CatalogStore owns products, their images and their category links.
// Every multi-table mutation runs in one transaction on one pooled
// connection.
type CatalogStore struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewCatalogStore constructs CatalogStore.
func NewCatalogStore(db *gorm.DB, log *slog.Logger) *CatalogStore {
	return &CatalogStore{db: db, log: log.With("component", "catalog")}
}

// ProductInput carries raw product fields as they arrive from a form.
type ProductInput struct {
	Name        string
	RegDate     string
	Price       string
	Quantity    string
	Description *string
	ImagePaths  []string
	// Categories nil leaves an existing product's categories untouched on
	// update; an empty non-nil slice clears them.
	Categories []string
}

// ProductDetail is a product with its images and category names attached.
type ProductDetail struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	RegDate     models.Date     `json:"reg_date"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description *string         `json:"description"`
	Images      []string        `json:"images"`
	Categories  []string        `json:"categories"`
}

func (in ProductInput) toProduct() (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	price := strings.TrimSpace(in.Price)
	quantity := strings.TrimSpace(in.Quantity)
	regDate := strings.TrimSpace(in.RegDate)
	if name == "" || price == "" || quantity == "" || regDate == "" {
		return models.Product{}, errMissingFields
	}

	product := models.Product{Name: name, Description: in.Description}

	var err error
	if product.Price, err = decimal.NewFromString(price); err != nil {
		return product, NewClientError(ErrValidation, "Invalid price")
	}
	if product.Price.IsNegative() {
		return product, NewClientError(ErrValidation, "Price must not be negative")
	}

	if product.Quantity, err = strconv.Atoi(quantity); err != nil {
		return product, NewClientError(ErrValidation, "Invalid quantity")
	}
	if product.Quantity < 0 {
		return product, NewClientError(ErrValidation, "Quantity must not be negative")
	}

	if product.RegDate, err = models.ParseDate(regDate); err != nil {
		return product, NewClientError(ErrValidation, "Invalid registration date")
	}

	return product, nil
}

// CreateProduct inserts the product, its images and its category links and
// returns the new id.
func (s *CatalogStore) CreateProduct(ctx context.Context, in ProductInput) (uint, error) {
	product, err := in.toProduct()
	if err != nil {
		return 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if err := insertImages(tx, product.ID, in.ImagePaths); err != nil {
			return err
		}
		return linkCategories(tx, product.ID, in.Categories)
	})
	if err != nil {
		return 0, s.storageError(ctx, "create product", err, "name", product.Name)
	}

	return product.ID, nil
}

// GetProduct loads one product with images and categories.
func (s *CatalogStore) GetProduct(ctx context.Context, id uint) (*ProductDetail, error) {
	var detail *ProductDetail

	err := s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		// Connection hands over a shared statement; every query below starts
		// from a fresh one pinned to the same connection.
		conn = conn.Session(&gorm.Session{NewDB: true})

		var product models.Product
		if err := conn.Take(&product, id).Error; err != nil {
			return err
		}

		details, err := attachChildren(conn, []models.Product{product})
		if err != nil {
			return err
		}
		detail = &details[0]
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProductNotFound
		}
		return nil, s.storageError(ctx, "get product", err, "product_id", id)
	}

	return detail, nil
}

// UpdateProduct overwrites the product columns. Non-empty ImagePaths replace
// the whole image set and a non-nil Categories replaces the category links.
// It returns the paths of the images that were replaced.
func (s *CatalogStore) UpdateProduct(ctx context.Context, id uint, in ProductInput) ([]string, error) {
	product, err := in.toProduct()
	if err != nil {
		return nil, err
	}

	var replaced []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"quantity":    product.Quantity,
			"reg_date":    product.RegDate,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// MySQL reports zero affected rows for an unchanged row.
			var count int64
			if err := tx.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errProductNotFound
			}
		}

		if len(in.ImagePaths) > 0 {
			old, err := deleteImages(tx, id)
			if err != nil {
				return err
			}
			if err := insertImages(tx, id, in.ImagePaths); err != nil {
				return err
			}
			replaced = old
		}

		if in.Categories != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
				return err
			}
			if err := linkCategories(tx, id, in.Categories); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errProductNotFound) {
			return nil, err
		}
		storageErr := s.storageError(ctx, "update product", err, "product_id", id)
		storageErr.Message = "Failed to update product"
		return nil, storageErr
	}

	return replaced, nil
}

// DeleteProduct removes the product with its images and category links and
// returns the removed image paths. Deleting a missing product is not an
// error.
func (s *CatalogStore) DeleteProduct(ctx context.Context, id uint) ([]string, error) {
	var removed []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := deleteImages(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Product{}, id).Error; err != nil {
			return err
		}
		removed = old
		return nil
	})
	if err != nil {
		return nil, s.storageError(ctx, "delete product", err, "product_id", id)
	}

	return removed, nil
}

// ListCategories returns every category ordered by name.
func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, s.storageError(ctx, "list categories", err)
	}
	return categories, nil
}

// UpsertCategory returns the id of the category called name, creating it
// when absent.
func (s *CatalogStore) UpsertCategory(ctx context.Context, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errMissingFields
	}

	id, err := upsertCategory(s.db.WithContext(ctx), name)
	if err != nil {
		return 0, s.storageError(ctx, "upsert category", err, "name", name)
	}
	return id, nil
}

func (s *CatalogStore) storageError(ctx context.Context, op string, err error, args ...interface{}) *StorageError {
	s.log.ErrorContext(ctx, op+" failed", append(args, "error", err)...)
	return &StorageError{Op: op, Err: err}
}

func insertImages(tx *gorm.DB, productID uint, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	images := make([]models.ProductImage, 0, len(paths))
	for _, path := range paths {
		images = append(images, models.ProductImage{ProductID: productID, ImagePath: path})
	}
	return tx.Create(&images).Error
}

func deleteImages(tx *gorm.DB, productID uint) ([]string, error) {
	var paths []string
	if err := tx.Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Order("id").
		Pluck("image_path", &paths).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func linkCategories(tx *gorm.DB, productID uint, names []string) error {
	names = NormalizeCategoryNames(names)
	if len(names) == 0 {
		return nil
	}

	seen := make(map[uint]bool, len(names))
	links := make([]models.ProductCategory, 0, len(names))
	for _, name := range names {
		categoryID, err := upsertCategory(tx, name)
		if err != nil {
			return err
		}
		// Case-insensitive collations can fold two spellings onto one row.
		if seen[categoryID] {
			continue
		}
		seen[categoryID] = true
		links = append(links, models.ProductCategory{ProductID: productID, CategoryID: categoryID})
	}

	return tx.Create(&links).Error
}

// upsertCategory relies on the unique index on categories.name so that
// concurrent inserts of one name resolve to the same row.
func upsertCategory(tx *gorm.DB, name string) (uint, error) {
	category := models.Category{Name: name}

	onConflict := clause.OnConflict{Columns: []clause.Column{{Name: "name"}}}
	if tx.Dialector.Name() == "mysql" {
		onConflict.DoUpdates = clause.Assignments(map[string]interface{}{
			"id": gorm.Expr("LAST_INSERT_ID(id)"),
		})
	} else {
		onConflict.DoUpdates = clause.AssignmentColumns([]string{"name"})
	}

	if err := tx.Clauses(onConflict).Create(&category).Error; err != nil {
		return 0, err
	}

	if category.ID == 0 {
		if err := tx.Select("id").Where("name = ?", name).Take(&category).Error; err != nil {
			return 0, err
		}
	}

	return category.ID, nil
}

// NormalizeCategoryNames trims names, drops empty ones and removes
// duplicates while keeping first-seen order.
func NormalizeCategoryNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
