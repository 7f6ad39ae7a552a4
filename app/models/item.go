package models

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ItemKind discriminates the kinds of sellable inventory. Vehicles are the
// only kind today; the storefront was designed to add parts and tools later.
type ItemKind string

const (
	KindVehicle ItemKind = "veiculo"
)

// Sellable is anything the store can list and sell.
type Sellable interface {
	Kind() ItemKind
	FormattedPrice() string
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a price in Brazilian Real, e.g. "R$ 45.900,00".
// Formatting is presentation-only; prices are stored as plain numbers.
func FormatBRL(value float64) string {
	return brl.Sprintf("%v", currency.Symbol(currency.BRL.Amount(value)))
}
