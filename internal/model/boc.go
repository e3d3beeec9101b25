package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BOCRequest represents request for POST /generate-boc
type BOCRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    Amount `json:"amount" binding:"required" swaggertype:"string" example:"0.05"`
}

// BOCResponse represents response for POST /generate-boc
type BOCResponse struct {
	BOC string `json:"boc"`
}

// Amount is a whole-TON amount that may arrive as a JSON string or a JSON number.
// The textual form is kept as-is so no float conversion happens before parsing.
type Amount string

// UnmarshalJSON accepts "1.5", 1.5 and null (empty amount).
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// String returns the textual amount
func (a Amount) String() string {
	return string(a)
}
