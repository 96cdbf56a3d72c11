// Command midas-cli is an admin tool for poking the ledger directly:
// registering users, posting transactions and printing reports without going
// through the daemon.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/midas-bot/midas/infra"
	infrarepo "github.com/midas-bot/midas/infra/repository"
	"github.com/midas-bot/midas/pkg/config"
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/dto"
	reportsvc "github.com/midas-bot/midas/pkg/service/report"
	txsvc "github.com/midas-bot/midas/pkg/service/transaction"
	usersvc "github.com/midas-bot/midas/pkg/service/user"
	"github.com/shopspring/decimal"
)

const usage = `Usage: midas-cli <command> [args]

Commands:
  register <user-id> <currency>             register a user (EUR, USD, UAH)
  delete-user <user-id>                     delete a user and everything they own
  users                                     list registered users
  tx <user-id> <type> <amount> <title>      post a transaction
  delete-tx <transaction-id>                delete a transaction
  txs <user-id> [limit]                     list recent transactions
  balance <user-id>                         print the running net balance
  report <user-id>                          print the current report
  close-period <user-id>                    print the report and reset the accounts
  types                                     list transaction types
`

var (
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		failure.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	if command == "types" {
		for _, t := range domain.TransactionTypes() {
			fmt.Println(t.Readable())
		}
		return nil
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}
	db, err := infra.NewDBConnection(cfg.DB.Url, cfg.Env)
	if err != nil {
		return err
	}
	if err := infra.Migrate(db); err != nil {
		return err
	}

	uow := infrarepo.NewUoW(db)
	users := usersvc.New(uow, logger)
	transactions := txsvc.New(uow, logger)
	reports := reportsvc.New(uow, logger)
	ctx := context.Background()

	switch command {
	case "register":
		if len(args) != 2 {
			return fmt.Errorf("usage: register <user-id> <currency>")
		}
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		currency, err := domain.ParseCurrency(args[1])
		if err != nil {
			return err
		}
		u, err := users.Register(ctx, userID, currency)
		if err != nil {
			return err
		}
		success.Printf("registered user %d (%s)\n", u.ID, u.Currency)

	case "delete-user":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete-user <user-id>")
		}
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		if err := users.Delete(ctx, userID); err != nil {
			return err
		}
		success.Printf("deleted user %d\n", userID)

	case "users":
		all, err := users.ListAll(ctx)
		if err != nil {
			return err
		}
		for _, u := range all {
			notify := "silent"
			if u.SendNotifications {
				notify = "notified"
			}
			fmt.Printf("%d\t%s\t%s\tsince %s\n",
				u.ID, u.Currency, notify, u.CreatedAt.Format("2006-01-02"))
		}

	case "tx":
		if len(args) < 4 {
			return fmt.Errorf("usage: tx <user-id> <type> <amount> <title>")
		}
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		txType, err := domain.ParseTransactionType(args[1])
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[2])
		}
		tx, err := transactions.Create(ctx, dto.TransactionCreate{
			UserID: userID,
			Type:   txType,
			Title:  strings.Join(args[3:], " "),
			Amount: amount,
		})
		if err != nil {
			return err
		}
		success.Printf("posted %s %s as %s (%s)\n",
			tx.Type.Readable(), tx.Amount, tx.Title, tx.ID)

	case "delete-tx":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete-tx <transaction-id>")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}
		if err := transactions.Delete(ctx, id); err != nil {
			return err
		}
		success.Printf("deleted transaction %s\n", id)

	case "txs":
		if len(args) < 1 {
			return fmt.Errorf("usage: txs <user-id> [limit]")
		}
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		limit := 10
		if len(args) > 1 {
			if limit, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid limit %q", args[1])
			}
		}
		txs, err := transactions.ListRecent(ctx, userID, limit)
		if err != nil {
			return err
		}
		for _, tx := range txs {
			fmt.Printf("%s\t%s\t%-14s\t%s\t%s\n",
				tx.CreatedAt.Format("2006-01-02 15:04"),
				tx.ID, tx.Type.Readable(), tx.Amount, tx.Title)
		}

	case "balance":
		if len(args) != 1 {
			return fmt.Errorf("usage: balance <user-id>")
		}
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		storage, err := users.StorageOf(ctx, userID)
		if err != nil {
			return err
		}
		if storage.Amount.IsNegative() {
			failure.Println(storage.Amount)
		} else {
			success.Println(storage.Amount)
		}

	case "report", "close-period":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <user-id>", command)
		}
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		report, err := reports.Generate(ctx, userID, command == "close-period")
		if err != nil {
			return err
		}
		printReport(report)
		if command == "close-period" {
			success.Println("period closed, accounts reset")
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func printReport(report *domain.Report) {
	names := make([]string, 0, len(report.Accounts))
	for name := range report.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		balance := report.Accounts[name]
		line := fmt.Sprintf("%-16s %s", name, balance)
		if balance.IsNegative() {
			failure.Println(line)
		} else {
			fmt.Println(line)
		}
	}
	if report.Result.IsNegative() {
		failure.Printf("balance          %s\n", report.Result)
	} else {
		success.Printf("balance          %s\n", report.Result)
	}
}
