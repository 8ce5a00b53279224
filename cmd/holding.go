package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mgirard/folio"
)

type holdingCmd struct {
	date string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the open positions on a given day" }
func (*holdingCmd) Usage() string {
	return `holding [-d <date>]

  Replays the ledger up to the given day and displays the open positions
  with their FIFO cost basis and realized gains.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "The day to compute the holdings on (defaults to today)")
}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	on, err := folio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := folio.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	book, diags, err := folio.ReplayHoldings(ledger, on, cfg.OversellPolicy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Security\tQuantity\tCost\tRealized\n")
	for _, sec := range book.Open() {
		h := book.Get(sec)
		fmt.Printf("%s\t%s\t%s\t%s\n", h.Security, h.Quantity, h.CostBasis, h.RealizedGain.SignedString())
	}
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d)
	}
	return subcommands.ExitSuccess
}
