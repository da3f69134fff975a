package gmail_tools

import (
	"context"
	"errors"
	"testing"
)

func TestHandleMarkAsRead_SingleID(t *testing.T) {
	var marked []string

	svc := &fakeService{
		markFn: func(ctx context.Context, messageID string) error {
			marked = append(marked, messageID)
			return nil
		},
	}
	sc := newTestContext(t, svc)

	result, err := handleMarkAsRead(context.Background(), newRequest(map[string]interface{}{
		"message_ids": "msg1",
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if len(marked) != 1 || marked[0] != "msg1" {
		t.Errorf("marked = %v, want [msg1]", marked)
	}

	payload := decodePayload(t, result)
	if payload["success"] != true {
		t.Errorf("success = %v, want true", payload["success"])
	}
	if payload["marked_as_read"] != float64(1) {
		t.Errorf("marked_as_read = %v, want 1", payload["marked_as_read"])
	}
}

func TestHandleMarkAsRead_PartialFailure(t *testing.T) {
	svc := &fakeService{
		markFn: func(ctx context.Context, messageID string) error {
			if messageID == "msg2" {
				return errors.New("modify rejected")
			}
			return nil
		},
	}
	sc := newTestContext(t, svc)

	result, err := handleMarkAsRead(context.Background(), newRequest(map[string]interface{}{
		"message_ids": []interface{}{"msg1", "msg2", "msg3"},
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when some ids fail")
	}

	payload := decodePayload(t, result)
	if payload["success"] != false {
		t.Errorf("success = %v, want false", payload["success"])
	}
	if payload["marked_as_read"] != float64(2) {
		t.Errorf("marked_as_read = %v, want 2", payload["marked_as_read"])
	}
	if payload["failed"] != float64(1) {
		t.Errorf("failed = %v, want 1", payload["failed"])
	}

	failedIDs, ok := payload["failed_ids"].([]interface{})
	if !ok || len(failedIDs) != 1 || failedIDs[0] != "msg2" {
		t.Errorf("failed_ids = %v, want [msg2]", payload["failed_ids"])
	}
}

func TestHandleMarkAsRead_MissingIDs(t *testing.T) {
	sc := newTestContext(t, &fakeService{})

	result, err := handleMarkAsRead(context.Background(), newRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing message_ids")
	}
}

func TestHandleDeleteMessages_AllSucceed(t *testing.T) {
	var deleted []string

	svc := &fakeService{
		deleteFn: func(ctx context.Context, messageID string) error {
			deleted = append(deleted, messageID)
			return nil
		},
	}
	sc := newTestContext(t, svc)

	result, err := handleDeleteMessages(context.Background(), newRequest(map[string]interface{}{
		"message_ids": []interface{}{"msg1", "msg2"},
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if len(deleted) != 2 {
		t.Errorf("deleted = %v, want 2 ids", deleted)
	}

	payload := decodePayload(t, result)
	if payload["success"] != true {
		t.Errorf("success = %v, want true", payload["success"])
	}
	if payload["deleted"] != float64(2) {
		t.Errorf("deleted = %v, want 2", payload["deleted"])
	}
	if payload["total"] != float64(2) {
		t.Errorf("total = %v, want 2", payload["total"])
	}
}

func TestHandleDeleteMessages_ContinuesPastFailures(t *testing.T) {
	var attempted []string

	svc := &fakeService{
		deleteFn: func(ctx context.Context, messageID string) error {
			attempted = append(attempted, messageID)
			if messageID == "msg1" {
				return errors.New("delete rejected")
			}
			return nil
		},
	}
	sc := newTestContext(t, svc)

	result, err := handleDeleteMessages(context.Background(), newRequest(map[string]interface{}{
		"message_ids": []interface{}{"msg1", "msg2", "msg3"},
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if len(attempted) != 3 {
		t.Errorf("attempted = %v, want all 3 ids", attempted)
	}

	payload := decodePayload(t, result)
	if payload["deleted"] != float64(2) {
		t.Errorf("deleted = %v, want 2", payload["deleted"])
	}
	if payload["failed"] != float64(1) {
		t.Errorf("failed = %v, want 1", payload["failed"])
	}
}
