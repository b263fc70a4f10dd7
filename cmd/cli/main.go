// Command cli drives the ledger services directly against the configured
// database, without going through the HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/amirasaad/fintrack/infra/initializer"
	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/amirasaad/fintrack/pkg/service/ledger"
	"github.com/amirasaad/fintrack/pkg/service/transfer"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  accounts
  create-account <name> [currency]
  record <account id|name> <amount> [category name] [description]
  transactions [account id]
  transfer <from id> <to id> <amount>
  balance <account id>
  audit <account id>
  budgets

The owner is read from FINTRACK_OWNER.`

var (
	bold    = color.New(color.Bold).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	errLine = color.New(color.FgRed, color.Bold)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	if err := run(context.Background(), os.Stdout, os.Args[1:]); err != nil {
		_, _ = errLine.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, args []string) error {
	owner, err := uuid.Parse(os.Getenv("FINTRACK_OWNER"))
	if err != nil {
		return fmt.Errorf("FINTRACK_OWNER must be a uuid: %w", err)
	}
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	rt, err := initializer.InitializeDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() { _ = rt.Close() }()

	return dispatch(ctx, out, rt.Services, owner, args)
}

func dispatch(ctx context.Context, out io.Writer, svc initializer.Services, owner uuid.UUID, args []string) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "accounts":
		accounts, err := svc.Ledger.ListAccounts(ctx, owner)
		if err != nil {
			return err
		}
		for _, a := range accounts {
			_, _ = fmt.Fprintf(out, "%4d  %-30s %s %s\n", a.ID, a.Name, signed(a.Balance().String()), a.Currency)
		}
	case "create-account":
		if len(args) < 1 {
			return errors.New("usage: create-account <name> [currency]")
		}
		currency := ""
		if len(args) > 1 {
			currency = args[1]
		}
		a, err := svc.Ledger.CreateAccount(ctx, owner, args[0], currency)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Account created: ID=%s Name=%s Currency=%s\n", bold(a.ID), a.Name, a.Currency)
	case "record":
		if len(args) < 2 {
			return errors.New("usage: record <account id|name> <amount> [category name] [description]")
		}
		in := ledger.RecordInput{Account: ref(args[0]), Amount: args[1]}
		if len(args) > 2 && args[2] != "" {
			in.Category = domain.ByName(args[2])
		}
		if len(args) > 3 {
			in.Description = &args[3]
		}
		tx, err := svc.Ledger.RecordTransaction(ctx, owner, in)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Recorded %s %s on %s (transaction %d)\n",
			tx.Kind, signed(tx.Amount.String()), tx.AccountName, tx.ID)
	case "transactions":
		var filter repository.TransactionFilter
		if len(args) > 0 {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			filter.AccountID = &id
		}
		txs, err := svc.Ledger.ListTransactions(ctx, owner, filter)
		if err != nil {
			return err
		}
		for _, tx := range txs {
			categoryName := "-"
			if tx.CategoryName != nil {
				categoryName = *tx.CategoryName
			}
			_, _ = fmt.Fprintf(out, "%s  %-20s %-15s %s\n",
				tx.Date.Format(domain.DateLayout), tx.AccountName, categoryName, signed(tx.Amount.String()))
		}
	case "transfer":
		if len(args) < 3 {
			return errors.New("usage: transfer <from id> <to id> <amount>")
		}
		from, err := parseID(args[0])
		if err != nil {
			return err
		}
		to, err := parseID(args[1])
		if err != nil {
			return err
		}
		debit, credit, err := svc.Transfer.Transfer(ctx, owner, transfer.Input{
			FromAccountID: from,
			ToAccountID:   to,
			Amount:        args[2],
		})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Transferred %s from %s to %s\n",
			bold(credit.Amount.String()), debit.AccountName, credit.AccountName)
	case "balance":
		if len(args) < 1 {
			return errors.New("usage: balance <account id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := svc.Ledger.GetAccount(ctx, owner, id)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Account %d (%s) balance: %s %s\n", a.ID, a.Name, signed(a.Balance().String()), a.Currency)
	case "audit":
		if len(args) < 1 {
			return errors.New("usage: audit <account id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		audit, err := svc.Ledger.VerifyAccount(ctx, owner, id)
		if err != nil {
			return err
		}
		verdict := green("consistent")
		if !audit.Consistent {
			verdict = red("INCONSISTENT")
		}
		_, _ = fmt.Fprintf(out, "Account %d: stored %s, computed %s, %s\n",
			audit.AccountID, audit.Balance, audit.Computed, verdict)
	case "budgets":
		views, err := svc.Budget.List(ctx, owner)
		if err != nil {
			return err
		}
		for _, v := range views {
			scope := "all categories"
			if v.CategoryName != nil {
				scope = *v.CategoryName
			}
			remaining := green(v.Remaining.String())
			if v.IsOver {
				remaining = red(v.Remaining.String())
			}
			_, _ = fmt.Fprintf(out, "%4d  %-20s %-8s spent %s of %s, remaining %s\n",
				v.ID, scope, v.Period, v.Spent, v.Amount, remaining)
		}
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	return nil
}

// ref treats a numeric argument as an account id and anything else as a name.
func ref(arg string) domain.Ref {
	if id, err := strconv.ParseUint(arg, 10, 64); err == nil && id > 0 {
		return domain.ByID(uint(id))
	}
	return domain.ByName(arg)
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q is not an id", domain.ErrValidation, arg)
	}
	return uint(id), nil
}

func signed(amount string) string {
	if len(amount) > 0 && amount[0] == '-' {
		return yellow(amount)
	}
	return amount
}
