package accounts

// DefaultChart returns a built-in chart of accounts by template name.
// Unknown names fall back to the fund chart.
func DefaultChart(template string) ChartNode {
	switch template {
	case "basic":
		return basicChart()
	case "fund":
		return fundChart()
	default:
		return fundChart()
	}
}

// ChartTemplates lists the names accepted by DefaultChart.
func ChartTemplates() []string {
	return []string{"fund", "basic"}
}

func basicChart() ChartNode {
	return Group(DefaultRootName,
		Group("Assets", Leaf("Cash")),
		Group("Liabilities", Leaf("Payables")),
	)
}

func fundChart() ChartNode {
	return Group(DefaultRootName,
		Group("Assets",
			Leaf("Cash"),
			Leaf("Receivables"),
			Leaf("Inventory"),
		),
		Group("Liabilities",
			Leaf("Payables"),
			Leaf("Shares Issued"),
			Leaf("Retained Earnings"),
		),
		Group("Income",
			Leaf("Trade"),
			Leaf("Interest"),
		),
		Group("Expenses",
			Group("Fees",
				Leaf("Broker"),
				Leaf("Administration"),
			),
			Leaf("Tax"),
			Leaf("Other"),
		),
	)
}
