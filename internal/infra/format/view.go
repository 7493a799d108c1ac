package format

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// View pairs structured data with its text rendering. JSON and YAML formatters
// encode the data; the text formatter renders the result of the text function.
type View struct {
	data any
	text func(prices *PriceFormatter) any
}

// NewView creates a View of data rendered as text by text.
func NewView(data any, text func(prices *PriceFormatter) any) View {
	return View{data: data, text: text}
}

// Data returns the structured data of the view.
func (v View) Data() any {
	return v.data
}

func (v View) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.data) //nolint:wrapcheck
}

func (v View) MarshalYAML() (any, error) {
	return v.data, nil
}

var _ yaml.Marshaler = View{}
