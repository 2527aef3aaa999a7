package kafkain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"return_app/internal/core/domain"
)

func DecodeNotification(b []byte) (domain.Notification, error) {
	var n domain.Notification

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&n); err != nil {
		return domain.Notification{}, fmt.Errorf("json decode: %w", err)
	}

	if err := n.Validate(); err != nil {
		return domain.Notification{}, fmt.Errorf("domain validate: %w", err)
	}

	return n, nil
}
