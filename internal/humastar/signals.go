package humastar

import (
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
)

// Signals is the flat JSON object of signals Datastar posts as the body.
// Getters return the zero value for missing or mistyped keys.
type Signals map[string]any

// ParseSignals decodes a request body.
func ParseSignals(body []byte) (Signals, error) {
	var s Signals
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, err
	}
	return s, nil
}

func lookup[T any](s Signals, key string) T {
	v, _ := s[key].(T)
	return v
}

func (s Signals) String(key string) string { return lookup[string](s, key) }

func (s Signals) Bool(key string) bool { return lookup[bool](s, key) }

func (s Signals) Float(key string) float64 { return lookup[float64](s, key) }

// Int truncates a numeric signal; JSON numbers decode as float64.
func (s Signals) Int(key string) int { return int(s.Float(key)) }

// Floats returns the numeric entries of a list signal.
func (s Signals) Floats(key string) []float64 {
	list := lookup[[]any](s, key)
	if list == nil {
		return nil
	}
	out := make([]float64, 0, len(list))
	for _, v := range list {
		if f, ok := v.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

// SignalsInput is embedded by inputs whose body is a signals object.
type SignalsInput struct {
	RawBody []byte
}

// Decode parses the body, reporting malformed JSON as a 400.
func (i *SignalsInput) Decode() (Signals, error) {
	s, err := ParseSignals(i.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid request data: " + err.Error())
	}
	return s, nil
}
