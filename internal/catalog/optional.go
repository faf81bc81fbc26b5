package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
)

// errBlank lets a value decoder report "present but empty" so the enclosing
// Optional stays unset.
var errBlank = errors.New("blank value")

// Optional marks whether a field was supplied. In JSON an omitted key and
// null both leave it unset.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o Optional[T]) OrElse(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		if errors.Is(err, errBlank) {
			*o = Optional[T]{}
			return nil
		}
		return err
	}
	*o = Some(v)
	return nil
}
