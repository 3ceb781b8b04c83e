package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
)

func TestWalkIsDepthFirstInSourceOrder(t *testing.T) {
	chart := Group("root",
		Group("Assets", Leaf("Cash"), Group("Bank", Leaf("Checking"))),
		Group("Liabilities", Leaf("Payables")),
	)

	var visited []string
	parents := make(map[string]int64)
	next := int64(0)
	err := Walk(chart, 0, func(n ChartNode, parentID int64) (int64, error) {
		next++
		visited = append(visited, n.Name)
		parents[n.Name] = parentID
		return next, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "Assets", "Cash", "Bank", "Checking", "Liabilities", "Payables"}, visited)
	assert.Equal(t, int64(0), parents["root"])
	assert.Equal(t, int64(2), parents["Cash"])
	assert.Equal(t, int64(4), parents["Checking"])
	assert.Equal(t, int64(1), parents["Liabilities"])
}

func TestChartValidate(t *testing.T) {
	assert.NoError(t, DefaultChart("fund").Validate())
	assert.NoError(t, DefaultChart("basic").Validate())

	tests := []struct {
		name  string
		chart ChartNode
	}{
		{"leaf root", Leaf("root")},
		{"empty group", Group("root", Group("Assets", Leaf("Cash")), Group("Equity"))},
		{"nested empty group", Group("root", Group("Assets", Group("Bank")))},
		{"duplicate name", Group("root", Group("Assets", Leaf("Cash")), Group("Other", Leaf("Cash")))},
		{"blank name", Group("root", Leaf(" "))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.chart.Validate(), model.ErrValidation)
		})
	}
}

func TestParseChartExplicitRoot(t *testing.T) {
	data := []byte(`
root:
  - Assets:
      - Cash
      - Receivables
  - Liabilities:
      - Payables
  - Expenses:
      - Fees:
          - Broker
      - Tax
`)
	chart, err := ParseChart(data)
	require.NoError(t, err)

	want := Group("root",
		Group("Assets", Leaf("Cash"), Leaf("Receivables")),
		Group("Liabilities", Leaf("Payables")),
		Group("Expenses", Group("Fees", Leaf("Broker")), Leaf("Tax")),
	)
	assert.Equal(t, want, chart)
}

func TestParseChartImplicitRoot(t *testing.T) {
	data := []byte(`
ASSET:
  - Cash
  - Inventory
LIABILITY:
  - Accounts Payable
EQUITY:
  - Shareholder Capital
`)
	chart, err := ParseChart(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultRootName, chart.Name)
	require.Len(t, chart.Children, 3)
	assert.Equal(t, "ASSET", chart.Children[0].Name)
	assert.True(t, chart.Children[0].IsGroup())
	assert.Equal(t, []ChartNode{Leaf("Cash"), Leaf("Inventory")}, chart.Children[0].Children)
	assert.Equal(t, "EQUITY", chart.Children[2].Name)
}

func TestParseChartSingleGroupGetsRoot(t *testing.T) {
	chart, err := ParseChart([]byte("Assets:\n  - Cash\n"))
	require.NoError(t, err)
	assert.Equal(t, Group(DefaultRootName, Group("Assets", Leaf("Cash"))), chart)
}

func TestParseChartErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "root: [unterminated"},
		{"scalar top", "root"},
		{"empty", ""},
		{"scalar children", "root: Cash"},
		{"nested list", "root:\n  - - Cash\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChart([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
