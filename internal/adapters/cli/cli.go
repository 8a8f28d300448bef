package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/orhanozan33/baharat-sub000/internal/app"
	"github.com/orhanozan33/baharat-sub000/internal/core"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "summary", "sum", "s":
		if len(args) < 2 {
			log.Fatal("Usage: app summary <dealer-code>")
		}
		summary, err := svc.GetDealerSummary(ctx, args[1])
		if err != nil {
			log.Fatalf("Failed to get summary: %v", err)
		}
		printSummary(summary)

	case "statement", "stmt":
		if len(args) < 2 {
			log.Fatal("Usage: app statement <dealer-code>")
		}
		result, err := svc.GetDealerStatement(ctx, args[1])
		if err != nil {
			log.Fatalf("Failed to get statement: %v", err)
		}
		printStatement(result)

	case "bal", "balances":
		result, err := svc.GetDealerBalances(ctx)
		if err != nil {
			log.Fatalf("Failed to get balances: %v", err)
		}
		printBalances(result)

	case "propose", "prop", "p":
		if len(args) < 2 {
			log.Fatal("Usage: app propose \"<payment note>\"")
		}
		result, err := svc.InterpretPayment(ctx, args[1])
		if err != nil {
			log.Fatalf("Agent error: %v", err)
		}
		if result.IsClarification {
			fmt.Fprintln(os.Stderr, "AI needs clarification:", result.ClarificationMessage)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Proposal)

	case "confirm", "con", "c":
		var proposal core.PaymentProposal
		if err := json.NewDecoder(os.Stdin).Decode(&proposal); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.ConfirmPaymentProposal(ctx, proposal)
		if err != nil {
			log.Fatalf("Confirm failed: %v", err)
		}
		fmt.Printf("Payment recorded: %s %s for %s.\n",
			result.Payment.Amount.StringFixed(2), result.Payment.Method, proposal.DealerCode)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: summary, statement, balances, propose, confirm", args[0])
	}
}

func printSummary(s *core.AccountSummary) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  ACCOUNT SUMMARY — %s (%s)\n", s.Dealer.Name, s.Dealer.Code)
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-8s %-12s %-10s %12s %12s\n", "ORDER", "DATE", "STATUS", "TOTAL", "PAID")
	fmt.Println(strings.Repeat("-", 62))
	for _, o := range s.Orders {
		mark := " "
		if o.IsPaid {
			mark = "*"
		}
		fmt.Printf("  #%-7d %-12s %-10s %12s %11s%s\n",
			o.ID, o.CreatedAt.Format("2006-01-02"), o.Status,
			o.Total.StringFixed(2), o.PaidAmount.StringFixed(2), mark)
	}
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  Total debt     : %12s\n", s.TotalDebt.StringFixed(2))
	fmt.Printf("  Total received : %12s\n", s.TotalReceived.StringFixed(2))
	fmt.Printf("  Balance        : %12s\n", s.Balance.StringFixed(2))
	fmt.Printf("  Unpaid         : %12s\n", s.UnpaidAmount.StringFixed(2))
	fmt.Println(strings.Repeat("=", 62))
}

func printStatement(result *app.StatementResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  STATEMENT — %s\n", result.DealerCode)
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  %-12s %-8s %-18s %9s %9s %10s\n", "DATE", "KIND", "REF", "DEBIT", "CREDIT", "BALANCE")
	fmt.Println(strings.Repeat("-", 70))
	for _, l := range result.Lines {
		fmt.Printf("  %-12s %-8s %-18s %9s %9s %10s\n",
			l.Date.Format("2006-01-02"), l.Kind, l.Reference,
			l.Debit.StringFixed(2), l.Credit.StringFixed(2), l.RunningBalance.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printBalances(result *app.BalancesResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %-62s\n", "DEALER BALANCES")
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %-10s %-26s %12s %12s\n", "CODE", "NAME", "DEBT", "BALANCE")
	fmt.Println(strings.Repeat("-", 66))
	for _, b := range result.Balances {
		fmt.Printf("  %-10s %-26s %12s %12s\n",
			b.Code, b.Name, b.TotalDebt.StringFixed(2), b.Balance.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 66))
}
