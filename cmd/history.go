package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mgirard/folio"
	"github.com/mgirard/folio/renderer"
)

type historyCmd struct {
	period string
	date   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the daily portfolio valuation history" }
func (*historyCmd) Usage() string {
	return `history [-p <period>] [-d <end_date>]

  Displays the gap-free day-by-day portfolio value, cost basis and net
  cash flow over the period, weekends and holidays included.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "inception", "Analysis period")
	f.StringVar(&c.date, "d", "0d", "The end date of the analysis (defaults to today)")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	end, err := folio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

	engine, _, err := newEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := engine.Report(ctx, folio.Request{Ledger: ledger, Period: c.period, End: end, Benchmark: "none"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderHistory(report.History))
	return subcommands.ExitSuccess
}
