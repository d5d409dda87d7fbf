package agent

import (
	"context"

	"github.com/etnz/captax/docs"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Reports gives the experts a read access to the user's tax data.
type Reports interface {
	// TaxReport returns the markdown tax report of year, all time when empty.
	// dividends is the dividend income of the period, none when empty.
	TaxReport(ctx context.Context, year, dividends string) (string, error)
	// Transactions returns the markdown history of symbol, all symbols when empty.
	Transactions(ctx context.Context, symbol string) (string, error)
}

// creates the facilitator
func newFacilitator(model string, logger *zap.Logger, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Logger:    logger,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user comes to understand the capital gains tax due on his stock trades and how to reduce it.
			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.
			Always ground figures on the Tax Advisor's answers, never invent them.
			`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTaxAdvisor creates the expert that reads the user's tax report and trades.
func NewTaxAdvisor(model string, reports Reports, logger *zap.Logger) *Expert {
	lib := []Function{TaxReportFunc(reports), TransactionsFunc(reports)}
	return &Expert{
		Name: "TaxAdvisor",
		Description: `This is the Tax Advisor. He reads the user's trades and the capital gains tax report computed from them.
		Ask him about taxes due, realized gains, holding periods and open lots.`,
		ModelName: model,
		Logger:    logger,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a tax advisor in charge of the user's capital gains.
				Sales are matched against the oldest purchases first (FIFO). A lot held less than 365 days
				is short-term, otherwise it is long-term. Flat rates apply to short-term gains, long-term gains
				and dividend income.

				Use the available tools to get the tax report and the list of trades before answering.
				Explain which lots generated which gain, and when an open lot becomes long-term.

				Here is the user documentation about lots:
			` + must(docs.GetTopic("lots"))}}},
		},
		Library: NewLibrary(lib),
	}
}

// NewTrader creates an expert grounded with Google Search.
func NewTrader(model string, logger *zap.Logger) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, very well aware of markets, companies and their latest news.
		Ask the Trader whenever you need recent or grounding information about a stock.`,
		ModelName: model,
		Logger:    logger,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			companies and markets. You Leverage Google Search to ground your assertions in a solid truth.
			`}}},
		},
	}
}

// TaxReportFunc declares the "tax_report" function.
func TaxReportFunc(reports Reports) *Func {
	const name = "tax_report"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "tax_report computes the capital gains tax report, with every lot match, from the user's trades.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"year": {
						Type:        genai.TypeString,
						Description: "The tax year, like 2024. All years are accounted when missing.",
					},
					"dividends": {
						Type:        genai.TypeString,
						Description: "The dividend income received in the period, like 120.50, in the ledger currency. None when missing.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report with the taxes due per term, the realized gains and the lot matches.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			year, err := stringArg(args, "year", false)
			if err != nil {
				return errorResponse(id, name, err)
			}
			dividends, err := stringArg(args, "dividends", false)
			if err != nil {
				return errorResponse(id, name, err)
			}
			report, err := reports.TaxReport(ctx, year, dividends)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, report)
		},
	}
}

// TransactionsFunc declares the "transactions" function.
func TransactionsFunc(reports Reports) *Func {
	const name = "transactions"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "transactions lists the user's buys and sells in chronological order.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {
						Type:        genai.TypeString,
						Description: "Only list the trades of this ticker. All tickers are listed when missing.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of trades: date, type, ticker, quantity and price.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			symbol, err := stringArg(args, "symbol", false)
			if err != nil {
				return errorResponse(id, name, err)
			}
			history, err := reports.Transactions(ctx, symbol)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, history)
		},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
