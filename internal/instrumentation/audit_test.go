package instrumentation

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nangokit/gmail-mcp/internal/logging"
)

const (
	testConnection = "conn-work-1"
	testMessageID  = "msg-18abc"
	testTraceID    = "abc123def456"
	testSpanID     = "span789"
	testToolList   = "gmail_list_messages"
	testToolSend   = "gmail_send_message"
	testToolDelete = "gmail_delete_messages"
)

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolList)

	if ti.Tool != testToolList {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolList)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolSend)
	err := errors.New("permission denied")

	ti.CompleteWithError(err)

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "permission denied" {
		t.Errorf("Error = %q, want %q", ti.Error, "permission denied")
	}
}

func TestToolInvocation_Builders(t *testing.T) {
	ti := NewToolInvocation(testToolList).
		WithConnection(testConnection).
		WithOperation(OperationList).
		WithResource(testMessageID)

	if ti.ConnectionID != testConnection {
		t.Errorf("ConnectionID = %q, want %q", ti.ConnectionID, testConnection)
	}
	if ti.Operation != OperationList {
		t.Errorf("Operation = %q, want %q", ti.Operation, OperationList)
	}
	if ti.ResourceID != testMessageID {
		t.Errorf("ResourceID = %q, want %q", ti.ResourceID, testMessageID)
	}
}

func TestToolInvocation_Status(t *testing.T) {
	ti := NewToolInvocation("test")

	ti.Success = true
	if status := ti.Status(); status != StatusSuccess {
		t.Errorf("Status() = %q, want %q", status, StatusSuccess)
	}

	ti.Success = false
	if status := ti.Status(); status != StatusError {
		t.Errorf("Status() = %q, want %q", status, StatusError)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolList).
		WithConnection(testConnection).
		WithOperation(OperationList).
		WithResource(testMessageID).
		CompleteSuccess()
	ti.TraceID = testTraceID

	attrs := ti.LogAttrs()

	attrMap := make(map[string]slog.Attr)
	for _, attr := range attrs {
		attrMap[attr.Key] = attr
	}

	requiredKeys := []string{"tool", "connection", "duration", "success"}
	for _, key := range requiredKeys {
		if _, ok := attrMap[key]; !ok {
			t.Errorf("Missing required attribute: %s", key)
		}
	}

	// Identifiers must be anonymized in standard logging
	if conn := attrMap["connection"].Value.String(); conn != logging.AnonymizeID(testConnection) {
		t.Errorf("connection = %q, want anonymized %q", conn, logging.AnonymizeID(testConnection))
	}
	if res := attrMap["resource"].Value.String(); res != logging.AnonymizeID(testMessageID) {
		t.Errorf("resource = %q, want anonymized %q", res, logging.AnonymizeID(testMessageID))
	}
	if operation := attrMap["operation"].Value.String(); operation != OperationList {
		t.Errorf("operation = %q, want %q", operation, OperationList)
	}
}

func TestToolInvocation_LogAttrs_WithError(t *testing.T) {
	ti := NewToolInvocation(testToolSend).
		WithConnection(testConnection).
		CompleteWithError(errors.New("test error"))

	attrs := ti.LogAttrs()

	attrMap := make(map[string]slog.Attr)
	for _, attr := range attrs {
		attrMap[attr.Key] = attr
	}

	if _, ok := attrMap["error"]; !ok {
		t.Error("Missing error attribute")
	}
	if errVal := attrMap["error"].Value.String(); errVal != "test error" {
		t.Errorf("error = %q, want %q", errVal, "test error")
	}
}

func TestToolInvocation_LogAttrs_MinimalFields(t *testing.T) {
	ti := NewToolInvocation(testToolList)
	ti.CompleteSuccess()

	attrs := ti.LogAttrs()

	attrMap := make(map[string]slog.Attr)
	for _, attr := range attrs {
		attrMap[attr.Key] = attr
	}

	// These should NOT be present when not set
	if _, ok := attrMap["operation"]; ok {
		t.Error("operation should not be present when empty")
	}
	if _, ok := attrMap["resource"]; ok {
		t.Error("resource should not be present when empty")
	}
	if _, ok := attrMap["trace_id"]; ok {
		t.Error("trace_id should not be present when empty")
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolDelete).
		WithConnection(testConnection).
		WithOperation(OperationDelete).
		WithResource(testMessageID).
		CompleteSuccess()
	ti.TraceID = testTraceID
	ti.SpanID = testSpanID

	attrs := ti.LogAuditAttrs()

	attrMap := make(map[string]slog.Attr)
	for _, attr := range attrs {
		attrMap[attr.Key] = attr
	}

	// Audit attributes carry the raw identifiers
	if conn := attrMap["connection"].Value.String(); conn != testConnection {
		t.Errorf("connection = %q, want %q", conn, testConnection)
	}
	if res := attrMap["resource"].Value.String(); res != testMessageID {
		t.Errorf("resource = %q, want %q", res, testMessageID)
	}

	if traceID := attrMap["trace_id"].Value.String(); traceID != testTraceID {
		t.Errorf("trace_id = %q, want %q", traceID, testTraceID)
	}
	if spanID := attrMap["span_id"].Value.String(); spanID != testSpanID {
		t.Errorf("span_id = %q, want %q", spanID, testSpanID)
	}
}

func TestToolInvocation_MethodChaining(t *testing.T) {
	ti := NewToolInvocation(testToolSend).
		WithConnection(testConnection).
		WithOperation(OperationSend).
		CompleteSuccess()

	if ti.Tool != testToolSend {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolSend)
	}
	if ti.ConnectionID != testConnection {
		t.Errorf("ConnectionID = %q, want %q", ti.ConnectionID, testConnection)
	}
	if ti.Operation != OperationSend {
		t.Errorf("Operation = %q, want %q", ti.Operation, OperationSend)
	}
	if !ti.Success {
		t.Error("Success should be true")
	}
}

func TestAuditLogger_New(t *testing.T) {
	al := NewAuditLogger(nil)
	if al.logger == nil {
		t.Error("logger should not be nil when created with nil")
	}

	logger := slog.Default()
	al = NewAuditLogger(logger)
	if al.logger != logger {
		t.Error("logger should be the provided logger")
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	al := NewAuditLoggerWithConfig(slog.Default(), AuditLoggingConfig{Enabled: false})
	ti := NewToolInvocation(testToolList).CompleteSuccess()

	// Should be a no-op, not a panic
	al.LogToolInvocation(ti)
	al.LogToolAudit(ti)
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	al := NewAuditLogger(slog.Default())

	al.LogToolInvocation(NewToolInvocation(testToolList).
		WithConnection(testConnection).
		CompleteSuccess())

	al.LogToolInvocation(NewToolInvocation(testToolSend).
		WithConnection(testConnection).
		CompleteWithError(errors.New("test error")))
}

func TestAuditLogger_LogToolAudit(t *testing.T) {
	al := NewAuditLogger(slog.Default())
	ti := NewToolInvocation(testToolDelete).
		WithConnection(testConnection).
		WithOperation(OperationDelete).
		CompleteSuccess()
	ti.TraceID = testTraceID

	al.LogToolAudit(ti)
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ctx := context.Background()
	ti := NewToolInvocation("test").WithSpanContext(ctx)

	if ti.TraceID != "" {
		t.Errorf("TraceID = %q, want empty string", ti.TraceID)
	}
	if ti.SpanID != "" {
		t.Errorf("SpanID = %q, want empty string", ti.SpanID)
	}
}

func TestToolInvocation_Complete_NilError(t *testing.T) {
	ti := NewToolInvocation("test")
	ti.Complete(true, nil)

	if ti.Error != "" {
		t.Errorf("Error = %q, want empty string", ti.Error)
	}
}
