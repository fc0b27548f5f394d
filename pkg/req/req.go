package req

import (
	"encoding/json"
	"errors"
	"io"
)

// Decode Декодирование тела запроса в структуру T
func Decode[T any](body io.ReadCloser) (T, error) {
	var payload T
	if body == nil {
		return payload, errors.New("empty body")
	}
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return payload, err
	}
	return payload, nil
}
