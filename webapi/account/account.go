package account

import (
	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/middleware"
	"github.com/amirasaad/fintrack/pkg/service/ledger"
	"github.com/amirasaad/fintrack/pkg/service/transfer"
	"github.com/amirasaad/fintrack/webapi/common"
	"github.com/amirasaad/fintrack/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for account-related operations. All routes
// require a bearer token whose subject is the owner.
//
// Routes:
//   - POST   /accounts               : Create an account.
//   - GET    /accounts               : List the owner's accounts, newest first.
//   - GET    /accounts/:id           : Fetch one account with its balance.
//   - PATCH  /accounts/:id           : Rename an account.
//   - DELETE /accounts/:id           : Delete an account without transactions.
//   - GET    /accounts/:id/audit     : Compare the balance with its transactions.
//   - POST   /accounts/:id/transfer  : Transfer funds to another account.
func Routes(app *fiber.App, ledgerSvc *ledger.Service, transferSvc *transfer.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/accounts", protected, CreateAccount(ledgerSvc))
	app.Get("/accounts", protected, ListAccounts(ledgerSvc))
	app.Get("/accounts/:id", protected, GetAccount(ledgerSvc))
	app.Patch("/accounts/:id", protected, RenameAccount(ledgerSvc))
	app.Delete("/accounts/:id", protected, DeleteAccount(ledgerSvc))
	app.Get("/accounts/:id/audit", protected, AuditAccount(ledgerSvc))
	app.Post("/accounts/:id/transfer", protected, Transfer(transferSvc))
}

// CreateAccount returns a Fiber handler for creating a new account for the current owner.
// @Summary Create a new account
// @Description Creates an empty account. Currency defaults to the configured ledger currency.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response "Account created successfully"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [post]
// @Security Bearer
func CreateAccount(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := ledgerSvc.CreateAccount(c.UserContext(), owner, input.Name, input.Currency)
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(a))
	}
}

// ListAccounts returns a handler listing the owner's accounts.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response "Accounts fetched"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [get]
// @Security Bearer
func ListAccounts(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		accounts, err := ledgerSvc.ListAccounts(c.UserContext(), owner)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err, "")
		}
		out := make([]*AccountDTO, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, ToAccountDTO(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", out)
	}
}

// GetAccount returns a handler fetching one account and its balance.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} common.Response "Account fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid account ID"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{id} [get]
// @Security Bearer
func GetAccount(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		a, err := ledgerSvc.GetAccount(c.UserContext(), owner, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch account", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(a))
	}
}

// RenameAccount returns a handler renaming an account.
// @Summary Rename an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body RenameAccountRequest true "New name"
// @Success 200 {object} common.Response "Account renamed"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{id} [patch]
// @Security Bearer
func RenameAccount(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[RenameAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := ledgerSvc.RenameAccount(c.UserContext(), owner, id, input.Name)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to rename account", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account renamed", ToAccountDTO(a))
	}
}

// DeleteAccount returns a handler deleting an account.
// @Summary Delete an account
// @Description Deletes an account. Accounts that still have transactions cannot be deleted.
// @Tags accounts
// @Param id path int true "Account ID"
// @Success 204 "Account deleted"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Account has transactions"
// @Router /accounts/{id} [delete]
// @Security Bearer
func DeleteAccount(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		if err := ledgerSvc.DeleteAccount(c.UserContext(), owner, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete account", err, "")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AuditAccount returns a handler recomputing an account balance.
// @Summary Audit an account balance
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} common.Response "Audit result"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{id}/audit [get]
// @Security Bearer
func AuditAccount(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		id, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		audit, err := ledgerSvc.VerifyAccount(c.UserContext(), owner, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to audit account", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Audit completed", ToAuditDTO(audit))
	}
}

// Transfer returns a handler moving funds from the account in the path to
// the destination account.
// @Summary Transfer funds between accounts
// @Description Debits the source account and credits the destination by the same positive amount, atomically. Fails with 422 when the source balance is too low.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path int true "Source account ID"
// @Param request body TransferRequest true "Transfer details"
// @Success 200 {object} common.Response "Transfer successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Same account"
// @Failure 422 {object} common.ProblemDetails "Insufficient funds"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts/{id}/transfer [post]
// @Security Bearer
func Transfer(transferSvc *transfer.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok, err := common.Owner(c)
		if !ok {
			return err
		}
		sourceID, ok, err := common.ParamID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		date, err := common.ParseDate(input.Date)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err, "")
		}
		debit, credit, err := transferSvc.Transfer(c.UserContext(), owner, transfer.Input{
			FromAccountID: sourceID,
			ToAccountID:   input.DestinationAccountID,
			Amount:        input.Amount.String(),
			Date:          date,
			Description:   input.Description,
		})
		if err != nil {
			log.Errorf("Failed to transfer: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to transfer", err, "")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", TransferResponseDTO{
			Outgoing: transaction.ToTransactionDTO(debit),
			Incoming: transaction.ToTransactionDTO(credit),
		})
	}
}
