package dto

import "encoding/json"

// Optional запоминает, был ли ключ в JSON вообще. UnmarshalJSON вызывается
// только для присутствующих ключей, в том числе со значением null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
