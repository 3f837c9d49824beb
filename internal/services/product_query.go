package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/example/abstore/internal/models"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ListParams filters and paginates ListProducts. Empty Category or Search
// means no filter.
type ListParams struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ListProducts returns one page of products ordered by id, each with its
// images and categories. The page is computed after filtering; children
// are fetched with one query per child table.
func (s *CatalogStore) ListProducts(ctx context.Context, params ListParams) ([]ProductDetail, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultListLimit
	}
	if params.Limit > MaxListLimit {
		params.Limit = MaxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	products := make([]ProductDetail, 0)
	err := s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		conn = conn.Session(&gorm.Session{NewDB: true})

		var rows []models.Product
		if err := composeListQuery(conn, params).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		details, err := attachChildren(conn, rows)
		if err != nil {
			return err
		}
		products = details
		return nil
	})
	if err != nil {
		return nil, s.storageError(ctx, "list products", err, "category", params.Category, "search", params.Search)
	}

	return products, nil
}

func composeListQuery(db *gorm.DB, params ListParams) *gorm.DB {
	query := db.Table("products AS p").
		Select("p.id, p.name, p.reg_date, p.price, p.quantity, p.description")

	if category := strings.TrimSpace(params.Category); category != "" {
		query = query.
			Joins("JOIN product_categories pc ON p.id = pc.product_id").
			Joins("JOIN categories c ON pc.category_id = c.id").
			Where("c.name = ?", category)
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		term := "%" + escapeLike(search) + "%"
		query = query.Where("(p.name LIKE ? ESCAPE '!' OR p.description LIKE ? ESCAPE '!')", term, term)
	}

	return query.Order("p.id ASC").Limit(params.Limit).Offset(params.Offset)
}

// escapeLike makes LIKE wildcards in user input match literally, using '!'
// as the escape character since it means the same thing in every dialect.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

type categoryLink struct {
	ProductID    uint
	CategoryName string
}

// attachChildren loads images and category names for rows and returns them
// as details in the same order. conn must be a NewDB session so the two
// queries do not share conditions.
func attachChildren(conn *gorm.DB, rows []models.Product) ([]ProductDetail, error) {
	ids := make([]uint, len(rows))
	details := make([]ProductDetail, len(rows))
	index := make(map[uint]int, len(rows))
	for i, p := range rows {
		ids[i] = p.ID
		index[p.ID] = i
		details[i] = ProductDetail{
			ID:          p.ID,
			Name:        p.Name,
			RegDate:     p.RegDate,
			Price:       p.Price,
			Quantity:    p.Quantity,
			Description: p.Description,
			Images:      []string{},
			Categories:  []string{},
		}
	}

	var images []models.ProductImage
	if err := conn.Where("product_id IN ?", ids).Order("id").Find(&images).Error; err != nil {
		return nil, err
	}
	for _, img := range images {
		i := index[img.ProductID]
		details[i].Images = append(details[i].Images, img.ImagePath)
	}

	var links []categoryLink
	if err := conn.Table("product_categories AS pc").
		Select("pc.product_id, c.name AS category_name").
		Joins("JOIN categories c ON pc.category_id = c.id").
		Where("pc.product_id IN ?", ids).
		Order("c.name").
		Scan(&links).Error; err != nil {
		return nil, err
	}
	for _, link := range links {
		i := index[link.ProductID]
		details[i].Categories = append(details[i].Categories, link.CategoryName)
	}

	return details, nil
}
