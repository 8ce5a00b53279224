package agent

import (
	"context"
	"fmt"

	"github.com/mgirard/folio"
	"github.com/mgirard/folio/docs"
	"github.com/mgirard/folio/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the expert in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the performance and the risk of his portfolio.
			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			The user will assume that you know about his portfolio, compute a report first to understand what he holds.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search for market news.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert market researcher,
		very well aware of financial products and institutions,
		and of the latest news about funds and companies.
		Ask the Researcher whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in financial markets, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAnalyst returns the expert wired to the analytics engine.
func NewAnalyst(engine *folio.Engine, ledger *folio.Ledger) *Expert {
	lib := []Function{reportFunc(engine, ledger), historyFunc(engine, ledger), topicFunc()}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He computes performance and risk reports from the user's ledger:
		returns (CAGR, XIRR, TWR), risk (volatility, Sharpe, drawdown, VaR), diversification
		and benchmark comparisons, over any period.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a portfolio analyst in charge of the user's performance and risk figures.
				You know how to use the Tools to compute reports over a period, to inspect the
				day-by-day valuation history, and to look up the documentation of any metric.
				A null metric is not an error: its diagnostic explains why it could not be computed,
				report the reason rather than a number.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func reportFunc(engine *folio.Engine, ledger *folio.Ledger) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Report",
			Description: `Report computes the full performance and risk report of the user's portfolio:
			value, positions, returns, risk metrics, diversification, benchmark comparison and diagnostics.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"period": {
						Type: genai.TypeString,
						Description: `The analysis period, "inception" is the default.
						Below is the doc about periods:

						` + must(docs.GetTopic("periods")),
					},
					"date": {
						Type:        genai.TypeString,
						Description: "The end date of the analysis in YYYY-MM-DD format. Today is the default.",
					},
					"benchmark": {
						Type:        genai.TypeString,
						Description: `A benchmark symbol to compare against, or "none" to disable the configured one.`,
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted report of the portfolio's performance and risk over the period.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			end, err := parseDate(args)
			if err != nil {
				return failure(id, "Report", err)
			}
			report, err := engine.Report(ctx, folio.Request{
				Ledger:    ledger,
				Period:    stringArg(args, "period"),
				End:       end,
				Benchmark: stringArg(args, "benchmark"),
			})
			if err != nil {
				return failure(id, "Report", err)
			}
			return &genai.FunctionResponse{
				ID: id, Name: "Report",
				Response: map[string]any{"output": renderer.RenderReport(report)},
			}
		},
	}
}

func historyFunc(engine *folio.Engine, ledger *folio.Ledger) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "History",
			Description: `History lists the day-by-day portfolio valuation over a period:
			market value, cost basis and net cash flow for every single day, weekends included.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"period": {
						Type:        genai.TypeString,
						Description: `The analysis period, "inception" is the default.`,
					},
					"date": {
						Type:        genai.TypeString,
						Description: "The end date of the analysis in YYYY-MM-DD format. Today is the default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the daily valuations.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			end, err := parseDate(args)
			if err != nil {
				return failure(id, "History", err)
			}
			report, err := engine.Report(ctx, folio.Request{
				Ledger: ledger,
				Period: stringArg(args, "period"),
				End:    end,
			})
			if err != nil {
				return failure(id, "History", err)
			}
			return &genai.FunctionResponse{
				ID: id, Name: "History",
				Response: map[string]any{"output": renderer.RenderHistory(report.History)},
			}
		},
	}
}

func topicFunc() Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Topic",
			Description: `Topic returns the documentation of one topic, or all of them with "*".
			Available topics: periods, metrics, cost-basis, diagnostics.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "The topic name.",
					},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown documentation of the topic.",
			},
		},
		Func: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
			content, err := docs.GetTopic(stringArg(args, "topic"))
			if err != nil {
				return failure(id, "Topic", err)
			}
			return &genai.FunctionResponse{
				ID: id, Name: "Topic",
				Response: map[string]any{"output": content},
			}
		},
	}
}

// failure wraps an error into a function response the model can reason about.
func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID: id, Name: name,
		Response: map[string]any{"error": err.Error()},
	}
}

// stringArg extracts an optional string argument, "" when absent.
func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func parseDate(args map[string]any) (folio.Date, error) {
	sdate := stringArg(args, "date")
	if sdate == "" {
		return folio.Today(), nil
	}
	date, err := folio.ParseDate(sdate)
	if err != nil {
		return folio.Today(), fmt.Errorf("argument 'date' must be a valid date, got %q: %w", sdate, err)
	}
	return date, nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
