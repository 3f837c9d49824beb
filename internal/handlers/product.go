package handlers

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/example/abstore/internal/services"
	"github.com/example/abstore/internal/utils"
)

// ProductHandler manages product CRUD.
type ProductHandler struct {
	store   *services.CatalogStore
	uploads *utils.UploadStore
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(store *services.CatalogStore, uploads *utils.UploadStore) *ProductHandler {
	return &ProductHandler{store: store, uploads: uploads}
}

// ListProducts returns one page of products filtered by category and search.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg, err := utils.ParsePagination(c.Query("limit"), c.Query("offset"), services.DefaultListLimit, services.MaxListLimit)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	products, err := h.store.ListProducts(c.UserContext(), services.ListParams{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	})
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(products)
}

// GetProduct loads a product with images and categories.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := utils.ParseID(c.Params("id"))
	if !ok {
		return errInvalidProductID
	}

	product, err := h.store.GetProduct(c.UserContext(), id)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(product)
}

// CreateProduct handles multipart product creation with image uploads.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	in, files, err := readProductForm(c)
	if err != nil {
		return err
	}
	if in.Categories == nil {
		in.Categories = []string{}
	}

	paths, err := h.saveImages(files)
	if err != nil {
		return err
	}
	in.ImagePaths = paths

	id, err := h.store.CreateProduct(c.UserContext(), in)
	if err != nil {
		h.uploads.Remove(paths)
		return errorResponse(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "Product added successfully!"})
}

// UpdateProduct overwrites product fields. Uploaded images replace the
// existing set; a category field replaces the category links.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := utils.ParseID(c.Params("id"))
	if !ok {
		return errInvalidProductID
	}

	in, files, err := readProductForm(c)
	if err != nil {
		return err
	}

	paths, err := h.saveImages(files)
	if err != nil {
		return err
	}
	in.ImagePaths = paths

	replaced, err := h.store.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		h.uploads.Remove(paths)
		return errorResponse(err)
	}
	h.uploads.Remove(replaced)

	return c.JSON(fiber.Map{"message": "Product updated successfully"})
}

// DeleteProduct removes a product, its associations and its image files.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := utils.ParseID(c.Params("id"))
	if !ok {
		return errInvalidProductID
	}

	removed, err := h.store.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return errorResponse(err)
	}
	h.uploads.Remove(removed)

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

func (h *ProductHandler) saveImages(files []*multipart.FileHeader) ([]string, error) {
	paths, err := h.uploads.Save(files)
	if err != nil {
		if errors.Is(err, utils.ErrNotImage) {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return nil, err
	}
	return paths, nil
}

// readProductForm accepts multipart and urlencoded bodies. Categories stays
// nil when the request has no category field.
func readProductForm(c *fiber.Ctx) (services.ProductInput, []*multipart.FileHeader, error) {
	var form *multipart.Form
	if isMultipart(c) {
		var err error
		if form, err = c.MultipartForm(); err != nil {
			return services.ProductInput{}, nil, fiber.NewError(fiber.StatusBadRequest, "invalid multipart body")
		}
	}

	value := func(key string) string {
		v, _ := formField(c, form, key)
		return v
	}

	in := services.ProductInput{
		Name:     value("name"),
		RegDate:  value("regDate"),
		Price:    value("price"),
		Quantity: value("quantity"),
	}
	if desc, ok := formField(c, form, "description"); ok {
		in.Description = &desc
	}
	if category, ok := formField(c, form, "category"); ok {
		in.Categories = utils.SplitList(category)
	}

	var files []*multipart.FileHeader
	if form != nil {
		files = form.File["images"]
	}

	return in, files, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return len(c.Request().Header.MultipartFormBoundary()) > 0
}

func formField(c *fiber.Ctx, form *multipart.Form, key string) (string, bool) {
	if form != nil {
		if v, ok := form.Value[key]; ok && len(v) > 0 {
			return v[0], true
		}
		return "", false
	}

	args := c.Request().PostArgs()
	if !args.Has(key) {
		return "", false
	}
	return string(args.Peek(key)), true
}

// RegisterProductRoutes attaches product routes to fiber app.
func (h *ProductHandler) RegisterProductRoutes(router fiber.Router) {
	router.Get("/", h.ListProducts)
	router.Get("/:id", h.GetProduct)
	router.Post("/", h.CreateProduct)
	router.Put("/:id", h.UpdateProduct)
	router.Delete("/:id", h.DeleteProduct)
}
