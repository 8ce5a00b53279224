// Package cmd implements the CLI application to analyze a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"
	"github.com/mgirard/folio"
	"github.com/mgirard/folio/eodhd"
)

// Commands lists the subcommands.
// A main package will call Register on each one, and Execute on the user-selected one.
var Commands = []subcommands.Command{
	&reportCmd{},
	&historyCmd{},
	&holdingCmd{},
	&buyCmd{},
	&sellCmd{},
	&topicCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")
var configFile = flag.String("config", "folio.yaml", "Path to the configuration file (YAML)")
var verbose = flag.Bool("v", false, "Enable debug logging")

// DecodeLedger decodes the ledger from the app default ledger file.
// A missing file is an empty ledger.
func DecodeLedger() (*folio.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return folio.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	ledger, err := folio.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", *ledgerFile, err)
	}
	return ledger, nil
}

// newEngine builds the engine from the app config, with EODHD as the
// price source.
func newEngine() (*folio.Engine, folio.Config, error) {
	cfg, err := folio.LoadConfig(*configFile)
	if err != nil {
		return nil, folio.Config{}, err
	}
	log := newLogger()
	prices := eodhd.New(cfg.EODHDKey).WithLogger(log)
	engine, err := folio.NewEngine(prices, cfg)
	if err != nil {
		return nil, folio.Config{}, err
	}
	return engine.WithLogger(log), cfg, nil
}

// EncodeTransaction appends a single transaction to the app default ledger file.
func EncodeTransaction(tx folio.Transaction) subcommands.ExitStatus {
	filename := *ledgerFile
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := folio.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", filename)
	return subcommands.ExitSuccess
}
