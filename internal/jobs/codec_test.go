package jobs

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := ProcessItemPayload{
		ItemID:      "item-1",
		RequestedBy: "user-1",
		RequestID:   "req-1",
	}

	b, err := Encode(JobProcessItem, payload)

	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	gotType, gotPayload, err := Decode(b)

	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if gotType != JobProcessItem {
		t.Errorf("Decode type = %q, want %q", gotType, JobProcessItem)
	}

	p, ok := gotPayload.(ProcessItemPayload)

	if !ok {
		t.Fatalf("Decode payload has type %T", gotPayload)
	}

	if p != payload {
		t.Errorf("Decode payload = %+v, want %+v", p, payload)
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		jobType JobType
		payload any
		wantErr error
	}{
		{
			name:    "unknown type",
			jobType: JobType("send_email"),
			payload: ProcessItemPayload{ItemID: "x"},
			wantErr: ErrInvalidJobType,
		},
		{
			name:    "payload mismatch",
			jobType: JobProcessItem,
			payload: struct{ Foo string }{Foo: "bar"},
			wantErr: ErrPayloadTypeMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.jobType, tc.payload)

			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Encode error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeRejectsBadMessages(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "not json", body: "{oops", wantErr: ErrInvalidJobPayload},
		{name: "unknown type", body: `{"type":"send_email","data":{}}`, wantErr: ErrInvalidJobType},
		{name: "no data", body: `{"type":"process_item"}`, wantErr: ErrInvalidJobPayload},
		{name: "missing item id", body: `{"type":"process_item","data":{"requestedBy":"u"}}`, wantErr: ErrInvalidJobPayload},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tc.body))

			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Decode error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPushRequestDecodesBase64Body(t *testing.T) {
	inner, err := Encode(JobProcessItem, ProcessItemPayload{ItemID: "item-1"})

	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	envelope := `{"message":{"data":"` + base64.StdEncoding.EncodeToString(inner) + `","messageId":"m-1"},"subscription":"projects/p/subscriptions/s"}`

	var req PushRequest

	if err := json.Unmarshal([]byte(envelope), &req); err != nil {
		t.Fatalf("unmarshal push envelope: %v", err)
	}

	body, err := req.Body()

	if err != nil {
		t.Fatalf("Body returned error: %v", err)
	}

	if string(body) != string(inner) {
		t.Errorf("Body = %s, want %s", body, inner)
	}
}

func TestPushRequestRejectsEmptyData(t *testing.T) {
	var req PushRequest

	if err := json.Unmarshal([]byte(`{"message":{},"subscription":"s"}`), &req); err != nil {
		t.Fatalf("unmarshal push envelope: %v", err)
	}

	if _, err := req.Body(); !errors.Is(err, ErrEmptyPushMessage) {
		t.Errorf("Body error = %v, want %v", err, ErrEmptyPushMessage)
	}
}
