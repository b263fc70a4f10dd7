package budget

import (
	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/middleware"
	budgetsvc "github.com/amirasaad/fintrack/pkg/service/budget"
	"github.com/amirasaad/fintrack/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the budget endpoints. Every response carries the
// budget's spent, remaining and is_over figures computed from the ledger.
func Routes(app *fiber.App, budgetSvc *budgetsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/budgets", protected, CreateBudget(budgetSvc))
	app.Get("/budgets", protected, ListBudgets(budgetSvc))
	app.Get("/budgets/:id", protected, GetBudget(budgetSvc))
	app.Put("/budgets/:id", protected, UpdateBudget(budgetSvc))
	app.Delete("/budgets/:id", protected, DeleteBudget(budgetSvc))
}

// CreateBudget returns a handler creating a budget.
// @Summary Create a budget
// @Description Creates a spending ceiling. Monthly budgets measure the current calendar month; other periods accumulate from start_date.
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body CreateBudgetRequest true "Budget details"
// @Success 201 {object} common.Response "Budget created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Category not found"
// @Router /budgets [post]
// @Security Bearer
func CreateBudget(budgetSvc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateBudgetRequest](c)
		if input == nil {
			return err
		}
		start, err := common.ParseDate(input.StartDate)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid start_date", err, "")
		}
		v, err := budgetSvc.Create(c.UserContext(), owner, budgetsvc.CreateInput{
			CategoryID: input.CategoryID,
			Amount:     input.Amount.String(),
			Period:     input.Period,
			StartDate:  start,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create budget", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Budget created", ToBudgetDTO(v))
	}
}

// ListBudgets returns a handler listing budgets, newest first.
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Success 200 {object} common.Response "Budgets fetched"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Router /budgets [get]
// @Security Bearer
func ListBudgets(budgetSvc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		views, err := budgetSvc.List(c.UserContext(), owner)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list budgets", err, "")
		}
		out := make([]*BudgetDTO, 0, len(views))
		for _, v := range views {
			out = append(out, ToBudgetDTO(v))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Budgets fetched", out)
	}
}

// GetBudget returns a handler fetching one budget.
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Param id path int true "Budget ID"
// @Success 200 {object} common.Response "Budget fetched"
// @Failure 404 {object} common.ProblemDetails "Budget not found"
// @Router /budgets/{id} [get]
// @Security Bearer
func GetBudget(budgetSvc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		v, err := budgetSvc.Get(c.UserContext(), owner, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch budget", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Budget fetched", ToBudgetDTO(v))
	}
}

// UpdateBudget returns a handler revising a budget.
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path int true "Budget ID"
// @Param request body UpdateBudgetRequest true "New target"
// @Success 200 {object} common.Response "Budget updated"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Budget not found"
// @Router /budgets/{id} [put]
// @Security Bearer
func UpdateBudget(budgetSvc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[UpdateBudgetRequest](c)
		if input == nil {
			return err
		}
		start, err := common.ParseDate(input.StartDate)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid start_date", err, "")
		}
		v, err := budgetSvc.Update(c.UserContext(), owner, id, budgetsvc.UpdateInput{
			Amount:    input.Amount.String(),
			Period:    input.Period,
			StartDate: start,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update budget", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Budget updated", ToBudgetDTO(v))
	}
}

// DeleteBudget returns a handler deleting a budget.
// @Summary Delete a budget
// @Tags budgets
// @Param id path int true "Budget ID"
// @Success 204 "Budget deleted"
// @Failure 404 {object} common.ProblemDetails "Budget not found"
// @Router /budgets/{id} [delete]
// @Security Bearer
func DeleteBudget(budgetSvc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		if err := budgetSvc.Delete(c.UserContext(), owner, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete budget", err, "")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
