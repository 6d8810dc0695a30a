package productController

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kkarimsherif/iron-forge/models"
	"github.com/kkarimsherif/iron-forge/responses"
	"github.com/kkarimsherif/iron-forge/services"
)

type Controller struct {
	catalog *services.CatalogService
}

func NewController(catalog *services.CatalogService) *Controller {
	return &Controller{catalog: catalog}
}

// CreateProductRequest holds the data required to create a product
type CreateProductRequest struct {
	Name               string                     `json:"name"`
	Description        string                     `json:"description"`
	Price              float64                    `json:"price"`
	Category           string                     `json:"category"`
	Images             []string                   `json:"images"`
	PrimaryImage       string                     `json:"primaryImage"`
	Brand              string                     `json:"brand"`
	Quantity           int                        `json:"quantity"`
	DiscountPercentage float64                    `json:"discountPercentage"`
	Featured           bool                       `json:"featured"`
	MembershipDiscount *models.MembershipDiscount `json:"membershipDiscount"`
}

func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return services.Validationf("a product must have a name")
	}
	if len(r.Name) > 100 {
		return services.Validationf("a product name must have 100 characters or fewer")
	}
	if r.Description == "" {
		return services.Validationf("a product must have a description")
	}
	if r.Price < 0 {
		return services.Validationf("price must be above or equal to 0")
	}
	if !models.ValidCategory(r.Category) {
		return services.Validationf("unknown product category %q", r.Category)
	}
	if r.Quantity < 0 {
		return services.Validationf("quantity cannot be negative")
	}
	if r.DiscountPercentage < 0 || r.DiscountPercentage > 100 {
		return services.Validationf("discount must be between 0 and 100")
	}
	if r.MembershipDiscount != nil {
		if r.MembershipDiscount.DiscountPercentage < 0 || r.MembershipDiscount.DiscountPercentage > 100 {
			return services.Validationf("membership discount must be between 0 and 100")
		}
	}
	return nil
}

// UpdateProductRequest holds the optional fields for a product update
type UpdateProductRequest struct {
	Name               *string                    `json:"name"`
	Description        *string                    `json:"description"`
	Price              *float64                   `json:"price"`
	Category           *string                    `json:"category"`
	Images             []string                   `json:"images"`
	PrimaryImage       *string                    `json:"primaryImage"`
	Brand              *string                    `json:"brand"`
	Quantity           *int                       `json:"quantity"`
	DiscountPercentage *float64                   `json:"discountPercentage"`
	Featured           *bool                      `json:"featured"`
	MembershipDiscount *models.MembershipDiscount `json:"membershipDiscount"`
}

func (r *UpdateProductRequest) Validate() error {
	if r.Price != nil && *r.Price < 0 {
		return services.Validationf("price must be above or equal to 0")
	}
	if r.Category != nil && !models.ValidCategory(*r.Category) {
		return services.Validationf("unknown product category %q", *r.Category)
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		return services.Validationf("quantity cannot be negative")
	}
	if r.DiscountPercentage != nil && (*r.DiscountPercentage < 0 || *r.DiscountPercentage > 100) {
		return services.Validationf("discount must be between 0 and 100")
	}
	return nil
}

// List handles GET /api/products
func (ctl *Controller) List(c *fiber.Ctx) error {
	filter := services.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	if v := c.Query("inStock"); v != "" {
		inStock := v == "true"
		filter.InStock = &inStock
	}
	if v := c.Query("minPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &price
		}
	}
	filter.Page, _ = strconv.ParseInt(c.Query("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	products, total, err := ctl.catalog.ListProducts(c.Context(), filter)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{
		"products": products,
		"total":    total,
	}))
}

// Get handles GET /api/products/:id
func (ctl *Controller) Get(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid product id"))
	}

	product, err := ctl.catalog.GetProduct(c.Context(), id)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"product": product}))
}

// Create handles POST /api/products (admin)
func (ctl *Controller) Create(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return responses.Error(c, err)
	}

	product := &models.Product{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		Category:           req.Category,
		Images:             req.Images,
		PrimaryImage:       req.PrimaryImage,
		Brand:              req.Brand,
		Quantity:           req.Quantity,
		DiscountPercentage: req.DiscountPercentage,
		Featured:           req.Featured,
	}
	if req.MembershipDiscount != nil {
		product.MembershipDiscount = *req.MembershipDiscount
	}

	if err := ctl.catalog.CreateProduct(c.Context(), product); err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(responses.OK(fiber.Map{"product": product}))
}

// Update handles PATCH /api/products/:id (admin)
func (ctl *Controller) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid product id"))
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return responses.Error(c, err)
	}

	product, err := ctl.catalog.UpdateProduct(c.Context(), id, services.ProductUpdate{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		Category:           req.Category,
		Images:             req.Images,
		PrimaryImage:       req.PrimaryImage,
		Brand:              req.Brand,
		Quantity:           req.Quantity,
		DiscountPercentage: req.DiscountPercentage,
		Featured:           req.Featured,
		MembershipDiscount: req.MembershipDiscount,
	})
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"product": product}))
}

// Delete handles DELETE /api/products/:id (admin)
func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid product id"))
	}

	if err := ctl.catalog.DeleteProduct(c.Context(), id); err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OKMessage("Product deleted", nil))
}
