package transaction

import (
	"strconv"

	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/middleware"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/amirasaad/fintrack/pkg/service/ledger"
	"github.com/amirasaad/fintrack/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the transaction endpoints.
//
//   - POST /transactions      : record an income or expense
//   - GET  /transactions      : list with optional account_id, from and to filters
//   - GET  /transactions/:id  : fetch one transaction
func Routes(app *fiber.App, ledgerSvc *ledger.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/transactions", protected, RecordTransaction(ledgerSvc))
	app.Get("/transactions", protected, ListTransactions(ledgerSvc))
	app.Get("/transactions/:id", protected, GetTransaction(ledgerSvc))
}

// RecordTransaction returns a handler that records a posting. The kind is
// derived from the amount's sign.
// @Summary Record a transaction
// @Description Records an income (positive amount) or expense (negative amount). Name the account by id or by name; a name always creates a new account. Categories given by name are reused or created.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction details"
// @Success 201 {object} common.Response "Transaction recorded"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account or category not found"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /transactions [post]
// @Security Bearer
func RecordTransaction(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err
		}
		accountRef, err := domain.RefFrom(input.AccountID, input.AccountName)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account reference", err, "")
		}
		categoryRef, err := domain.RefFrom(input.CategoryID, input.CategoryName)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid category reference", err, "")
		}
		date, err := common.ParseDate(input.Date)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err, "")
		}

		tx, err := ledgerSvc.RecordTransaction(c.UserContext(), owner, ledger.RecordInput{
			Account:     accountRef,
			Category:    categoryRef,
			Amount:      input.Amount.String(),
			Date:        date,
			Description: input.Description,
		})
		if err != nil {
			log.Errorf("Failed to record transaction: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to record transaction", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction recorded", ToTransactionDTO(tx))
	}
}

// ListTransactions returns a handler listing the caller's transactions,
// newest first.
// @Summary List transactions
// @Description Lists transactions newest first. from and to are inclusive YYYY-MM-DD dates.
// @Tags transactions
// @Produce json
// @Param account_id query int false "Account ID"
// @Param from query string false "First date (inclusive)"
// @Param to query string false "Last date (inclusive)"
// @Success 200 {object} common.Response "Transactions fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /transactions [get]
// @Security Bearer
func ListTransactions(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		var filter repository.TransactionFilter
		if raw := c.Query("account_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid account_id", domain.ErrValidation, "account_id must be a positive integer")
			}
			accountID := uint(id)
			filter.AccountID = &accountID
		}
		if filter.From, err = common.ParseDate(c.Query("from")); err != nil {
			return common.ProblemDetailsJSON(c, "Invalid from date", err, "")
		}
		if filter.To, err = common.ParseDate(c.Query("to")); err != nil {
			return common.ProblemDetailsJSON(c, "Invalid to date", err, "")
		}

		txs, err := ledgerSvc.ListTransactions(c.UserContext(), owner, filter)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", ToTransactionDTOs(txs))
	}
}

// GetTransaction returns a handler fetching one transaction.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} common.Response "Transaction fetched"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Not found"
// @Router /transactions/{id} [get]
// @Security Bearer
func GetTransaction(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		tx, err := ledgerSvc.GetTransaction(c.UserContext(), owner, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch transaction", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", ToTransactionDTO(tx))
	}
}
