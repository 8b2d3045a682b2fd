package model

import (
	"github.com/goccy/go-json"
)

// Roles is a list of role names. The backend sends either plain strings or
// {id, name} objects; both normalize to the name.
type Roles []string

type roleObject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts ["ADMIN"] and [{"id":1,"name":"ADMIN"}] shapes.
func (r *Roles) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	roles := make(Roles, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			roles = append(roles, name)
			continue
		}
		var obj roleObject
		if err := json.Unmarshal(item, &obj); err != nil {
			return err
		}
		if obj.Name != "" {
			roles = append(roles, obj.Name)
		}
	}
	*r = roles
	return nil
}
