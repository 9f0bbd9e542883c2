package model

import (
	"encoding/json"
	"strings"
)

// Recipient is one broadcast target. Request payloads may carry recipients
// as a bare string ("62811..."), a "number:name" string, or an object with
// phone/name fields; all three shapes decode into this one record so the
// rest of the pipeline never cares about the input shape.
type Recipient struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

func (r *Recipient) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if num, name, ok := strings.Cut(s, ":"); ok {
			r.Phone = strings.TrimSpace(num)
			r.Name = strings.TrimSpace(name)
		} else {
			r.Phone = strings.TrimSpace(s)
		}
		return nil
	}

	type alias Recipient
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	a.Name = strings.TrimSpace(a.Name)
	*r = Recipient(a)
	return nil
}
