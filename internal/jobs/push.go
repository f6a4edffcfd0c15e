package jobs

import "errors"

// PushRequest is the managed push-delivery envelope the broker POSTs to
// the worker: {"message": {"data": "<base64>", ...}, "subscription": "..."}.
// encoding/json base64-decodes Data into the raw message bytes.
type PushRequest struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

type PushMessage struct {
	Data      []byte `json:"data"`
	MessageID string `json:"messageId,omitempty"`
}

var ErrEmptyPushMessage = errors.New("push delivery has no message data")

// Body returns the decoded message bytes or an error when absent.
func (r PushRequest) Body() ([]byte, error) {
	if len(r.Message.Data) == 0 {
		return nil, ErrEmptyPushMessage
	}

	return r.Message.Data, nil
}
