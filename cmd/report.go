package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mgirard/folio"
	"github.com/mgirard/folio/renderer"
)

type reportCmd struct {
	period    string
	date      string
	benchmark string
	json      bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "compute the performance and risk report" }
func (*reportCmd) Usage() string {
	return `report [-p <period>] [-d <end_date>] [-b <benchmark>] [-json]

  Computes the full analytics report over the given period: value,
  positions, returns, risk metrics, diversification and the benchmark
  comparison.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "inception", "Analysis period (1m, 3m, 6m, ytd, 1y, 2y, 3y, 5y, inception)")
	f.StringVar(&c.date, "d", "0d", "The end date of the analysis (defaults to today)")
	f.StringVar(&c.benchmark, "b", "", `Benchmark symbol, or "none" to disable the configured one`)
	f.BoolVar(&c.json, "json", false, "Emit the raw report as JSON instead of markdown")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report, err := engine.Report(ctx, folio.Request{
		Ledger:    ledger,
		Period:    c.period,
		End:       end,
		Benchmark: c.benchmark,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.json {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(out))
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.RenderReport(report))
	return subcommands.ExitSuccess
}
