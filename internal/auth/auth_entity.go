package auth

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Identity is the signed-in employee. It is never mutated once set.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CompanyID string `json:"companyId"`
}

func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.ID) == ""
}

// flexString accepts both JSON strings and numbers; the login service sends
// numeric ids.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
