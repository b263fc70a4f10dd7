package category

import (
	"time"

	"github.com/amirasaad/fintrack/pkg/config"
	domaincategory "github.com/amirasaad/fintrack/pkg/domain/category"
	"github.com/amirasaad/fintrack/pkg/middleware"
	"github.com/amirasaad/fintrack/pkg/service/ledger"
	"github.com/amirasaad/fintrack/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	ParentID *uint  `json:"parent_id"`
}

// CategoryDTO is the API representation of a category.
type CategoryDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	ParentID  *uint     `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategoryDTO(c *domaincategory.Category) *CategoryDTO {
	return &CategoryDTO{ID: c.ID, Name: c.Name, ParentID: c.ParentID, CreatedAt: c.CreatedAt}
}

// Routes registers the category endpoints.
func Routes(app *fiber.App, ledgerSvc *ledger.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/categories", protected, CreateCategory(ledgerSvc))
	app.Get("/categories", protected, ListCategories(ledgerSvc))
	app.Delete("/categories/:id", protected, DeleteCategory(ledgerSvc))
}

// CreateCategory returns a handler creating a category.
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "Category details"
// @Success 201 {object} common.Response "Category created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Parent not found"
// @Router /categories [post]
// @Security Bearer
func CreateCategory(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateCategoryRequest](c)
		if input == nil {
			return err
		}
		cat, err := ledgerSvc.CreateCategory(c.UserContext(), owner, input.Name, input.ParentID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create category", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Category created", toCategoryDTO(cat))
	}
}

// ListCategories returns a handler listing categories, newest first.
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} common.Response "Categories fetched"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Router /categories [get]
// @Security Bearer
func ListCategories(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		cats, err := ledgerSvc.ListCategories(c.UserContext(), owner)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list categories", err, "")
		}
		out := make([]*CategoryDTO, 0, len(cats))
		for _, cat := range cats {
			out = append(out, toCategoryDTO(cat))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Categories fetched", out)
	}
}

// DeleteCategory returns a handler deleting a category.
// @Summary Delete a category
// @Description Fails with 409 while the category has children or is referenced by transactions or budgets.
// @Tags categories
// @Param id path int true "Category ID"
// @Success 204 "Category deleted"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Category not found"
// @Failure 409 {object} common.ProblemDetails "Category in use"
// @Router /categories/{id} [delete]
// @Security Bearer
func DeleteCategory(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		if err := ledgerSvc.DeleteCategory(c.UserContext(), owner, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete category", err, "")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
