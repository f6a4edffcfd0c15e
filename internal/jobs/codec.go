package jobs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// envelope is the wire format for queue messages: a type discriminator
// plus the raw payload.
type envelope struct {
	Type JobType         `json:"type"`
	Data json.RawMessage `json:"data"`
}

func Encode(t JobType, payload any) ([]byte, error) {
	if !t.IsValid() {
		return nil, ErrInvalidJobType
	}

	switch t {
	case JobProcessItem:
		_, ok := payload.(ProcessItemPayload)

		if !ok {
			_, ok2 := payload.(*ProcessItemPayload)

			if !ok2 {
				return nil, ErrPayloadTypeMismatch
			}
		}
	}

	data, err := json.Marshal(payload)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	b, err := json.Marshal(envelope{Type: t, Data: data})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	return b, nil
}

// Decode unmarshals an envelope into the correct typed payload struct.
func Decode(b []byte) (JobType, any, error) {
	var env envelope

	if err := json.Unmarshal(b, &env); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	if !env.Type.IsValid() {
		return env.Type, nil, ErrInvalidJobType
	}

	if len(env.Data) == 0 {
		return env.Type, nil, ErrInvalidJobPayload
	}

	switch env.Type {
	case JobProcessItem:
		var p ProcessItemPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return env.Type, nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		if strings.TrimSpace(p.ItemID) == "" {
			return env.Type, nil, ErrInvalidJobPayload
		}
		return env.Type, p, nil

	default:
		return env.Type, nil, ErrInvalidJobType
	}
}
