package assets

import "github.com/cleared-dev/ledger/internal/model"

// DefaultAssets returns the built-in currency set.
func DefaultAssets() []Spec {
	currencies := []struct{ code, desc string }{
		{"USD", "US Dollar"},
		{"EUR", "Euro"},
		{"JPY", "Japanese Yen"},
		{"CNY", "Chinese Yuan"},
		{"CHF", "Swiss Franc"},
		{"BRL", "Brazilian Real"},
		{"BTC", "Bitcoin"},
		{"ETH", "Ethereum"},
		{"XMR", "Monero"},
		{"ADA", "Cardano"},
		{"USDT", "Tether"},
	}
	out := make([]Spec, len(currencies))
	for i, c := range currencies {
		out[i] = Spec{Asset: model.Asset{Name: c.code, Description: c.desc, Active: true, Attrs: model.Currency{}}}
	}
	return out
}
