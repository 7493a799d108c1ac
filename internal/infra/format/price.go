package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PriceConfig holds configuration for monetary amounts in text output.
type PriceConfig struct {
	// Locale selects digit grouping and the decimal separator.
	Locale string `env:"LOCALE" default:"en-US"`
	// Symbol is printed in front of every amount.
	Symbol string `env:"SYMBOL" default:"$"`
}

// PriceFormatter formats monetary amounts for a locale.
type PriceFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewPriceFormatter creates a PriceFormatter from cfg.
func NewPriceFormatter(cfg PriceConfig) (*PriceFormatter, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}

	return &PriceFormatter{printer: message.NewPrinter(tag), symbol: cfg.Symbol}, nil
}

// DefaultPriceFormatter formats US dollars in American English.
func DefaultPriceFormatter() *PriceFormatter {
	return &PriceFormatter{printer: message.NewPrinter(language.AmericanEnglish), symbol: "$"}
}

// Format renders amount with two decimals and locale digit grouping.
func (p *PriceFormatter) Format(amount float64) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}

	return sign + p.symbol + p.printer.Sprintf("%.2f", amount)
}

// Number renders n with locale digit grouping.
func (p *PriceFormatter) Number(n int) string {
	return p.printer.Sprintf("%d", n)
}
