package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dataclean-pro/gateway/internal/models"
)

// Preview is the data_preview section of an upload response. Go maps do
// not preserve key order, but the table headers must follow the column
// order the service sent, so the first row's key order is captured during
// decoding.
type Preview struct {
	Rows    []models.PreviewRow
	Columns []string
}

// UnmarshalJSON decodes the row array and records the first row's key
// order. An empty or missing array yields no rows and no columns.
func (p *Preview) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &p.Rows); err != nil {
		return err
	}

	cols, err := firstObjectKeys(data)
	if err != nil {
		return err
	}
	p.Columns = cols
	return nil
}

// MarshalJSON writes the rows only; column order is derived state.
func (p Preview) MarshalJSON() ([]byte, error) {
	if p.Rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.Rows)
}

// firstObjectKeys walks the JSON array and returns the keys of its first
// object in wire order.
func firstObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('[') {
		return nil, fmt.Errorf("data_preview is not an array")
	}
	if !dec.More() {
		return nil, nil
	}

	tok, err = dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("data_preview row is not an object")
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in preview row", keyTok)
		}
		keys = append(keys, key)

		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// skipValue consumes one JSON value, descending into nested containers.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
