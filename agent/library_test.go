package agent

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

type fakeReports struct {
	year, dividends, symbol string
	err                     error
}

func (f *fakeReports) TaxReport(_ context.Context, year, dividends string) (string, error) {
	f.year, f.dividends = year, dividends
	return "# Capital Gains Tax Report", f.err
}

func (f *fakeReports) Transactions(_ context.Context, symbol string) (string, error) {
	f.symbol = symbol
	return "# Transactions", f.err
}

func TestLibrary(t *testing.T) {
	reports := &fakeReports{}
	lib := NewLibrary([]Function{TaxReportFunc(reports), TransactionsFunc(reports)})

	tests := []struct {
		name       string
		call       *genai.FunctionCall
		wantOutput string
		wantError  bool
	}{
		{
			name:       "tax report",
			call:       &genai.FunctionCall{ID: "1", Name: "tax_report", Args: map[string]any{"year": "2023"}},
			wantOutput: "# Capital Gains Tax Report",
		},
		{
			name:       "tax report without year",
			call:       &genai.FunctionCall{ID: "2", Name: "tax_report"},
			wantOutput: "# Capital Gains Tax Report",
		},
		{
			name:       "tax report with dividends",
			call:       &genai.FunctionCall{ID: "6", Name: "tax_report", Args: map[string]any{"dividends": "120.50"}},
			wantOutput: "# Capital Gains Tax Report",
		},
		{
			name:       "transactions",
			call:       &genai.FunctionCall{ID: "3", Name: "transactions", Args: map[string]any{"symbol": "AAPL"}},
			wantOutput: "# Transactions",
		},
		{
			name:      "bad argument",
			call:      &genai.FunctionCall{ID: "4", Name: "tax_report", Args: map[string]any{"year": 2023}},
			wantError: true,
		},
		{
			name:      "unknown function",
			call:      &genai.FunctionCall{ID: "5", Name: "holdings"},
			wantError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := lib(context.Background(), tt.call)
			if resp.ID != tt.call.ID || resp.Name != tt.call.Name {
				t.Errorf("response id/name = %q/%q, want %q/%q", resp.ID, resp.Name, tt.call.ID, tt.call.Name)
			}
			if _, hasErr := resp.Response["error"]; hasErr != tt.wantError {
				t.Errorf("response = %v, want error %v", resp.Response, tt.wantError)
			}
			if !tt.wantError && resp.Response["output"] != tt.wantOutput {
				t.Errorf("output = %v, want %q", resp.Response["output"], tt.wantOutput)
			}
		})
	}
	if reports.year != "" || reports.dividends != "120.50" || reports.symbol != "AAPL" {
		t.Errorf("reports received year %q, dividends %q and symbol %q", reports.year, reports.dividends, reports.symbol)
	}
}

func TestLibrary_ReportError(t *testing.T) {
	lib := NewLibrary([]Function{TaxReportFunc(&fakeReports{err: errors.New("no ledger")})})
	resp := lib(context.Background(), &genai.FunctionCall{Name: "tax_report"})
	if resp.Response["error"] != "no ledger" {
		t.Errorf("response = %v, want the report error", resp.Response)
	}
}

func TestExpert_Declaration(t *testing.T) {
	e := NewTaxAdvisor("model", &fakeReports{}, nil)
	d := e.Declaration()
	if d.Name != "TaxAdvisor" || d.Parameters.Required[0] != "question" {
		t.Errorf("Declaration() = %+v", d)
	}
	if _, err := e.Ask(context.Background(), &genai.Part{Text: "hi"}); !errors.Is(err, errNoChat) {
		t.Errorf("Ask() before Start error = %v, want errNoChat", err)
	}
	resp := e.Call(context.Background(), "1", map[string]any{})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Call() without question = %v, want an error", resp.Response)
	}
}
