package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat    = errors.New("unknown format")
	ErrUnsupportedValue = errors.New("text formatter cannot render value")
)

// Formatter writes command results.
type Formatter interface {
	Format(data any) error
}

// Options configures a Formatter.
type Options struct {
	// Writer is where output is written (defaults to os.Stdout)
	Writer io.Writer
	// Compact disables indentation of JSON and YAML output
	Compact bool
	// Prices formats monetary amounts in text output
	Prices *PriceFormatter
}

// NewFormatter creates a formatter for "text", "json" or "yaml".
func NewFormatter(format string, opts Options) (Formatter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.Prices == nil {
		opts.Prices = DefaultPriceFormatter()
	}

	switch format {
	case "json":
		return &JSONFormatter{opts: opts}, nil
	case "yaml":
		return &YAMLFormatter{opts: opts}, nil
	case "text", "":
		return &TextFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: text, json, yaml)", ErrUnknownFormat, format)
	}
}

type JSONFormatter struct {
	opts Options
}

func (f *JSONFormatter) Format(data any) error {
	encoder := json.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

type YAMLFormatter struct {
	opts Options
}

func (f *YAMLFormatter) Format(data any) error {
	encoder := yaml.NewEncoder(f.opts.Writer)
	defer encoder.Close()

	if !f.opts.Compact {
		encoder.SetIndent(2)
	}

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return nil
}

// TextFormatter writes human-readable output. It renders strings, fmt.Stringer
// values, tables and views; anything else fails with ErrUnsupportedValue.
type TextFormatter struct {
	opts Options
}

func (f *TextFormatter) Format(data any) error {
	var text string

	switch v := data.(type) {
	case View:
		return f.Format(v.text(f.opts.Prices))
	case Table:
		text = v.Render()
	case string:
		text = v
	case fmt.Stringer:
		text = v.String()
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, data)
	}

	if _, err := fmt.Fprintln(f.opts.Writer, text); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

var (
	_ Formatter = (*JSONFormatter)(nil)
	_ Formatter = (*YAMLFormatter)(nil)
	_ Formatter = (*TextFormatter)(nil)
)
