package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ProviderList is stored as a JSON array column.
type ProviderList []ProviderName

func (p ProviderList) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]ProviderName(p))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *ProviderList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported provider list type %T", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*p = nil
		return nil
	}

	return json.Unmarshal(data, (*[]ProviderName)(p))
}
