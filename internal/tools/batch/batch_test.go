package batch

import (
	"errors"
	"testing"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		paramName string
		want      []string
		wantErr   bool
	}{
		{
			name:      "single string",
			input:     "msg123",
			paramName: "message_ids",
			want:      []string{"msg123"},
			wantErr:   false,
		},
		{
			name:      "array of strings",
			input:     []interface{}{"id1", "id2", "id3"},
			paramName: "message_ids",
			want:      []string{"id1", "id2", "id3"},
			wantErr:   false,
		},
		{
			name:      "nil input",
			input:     nil,
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty string",
			input:     "",
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty array",
			input:     []interface{}{},
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with non-string",
			input:     []interface{}{"id1", 123, "id3"},
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with empty string",
			input:     []interface{}{"id1", "", "id3"},
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "invalid type",
			input:     123,
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "JSON string array",
			input:     `["id1", "id2", "id3"]`,
			paramName: "message_ids",
			want:      []string{"id1", "id2", "id3"},
			wantErr:   false,
		},
		{
			name:      "JSON string empty array",
			input:     `[]`,
			paramName: "message_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "string starting with bracket (not JSON)",
			input:     `[bulk] newsletter`,
			paramName: "message_ids",
			want:      []string{`[bulk] newsletter`},
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseStringOrArray() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !stringSliceEqual(got, tt.want) {
				t.Errorf("ParseStringOrArray() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	ids := []string{"id1", "id2", "id3"}

	summary := Process(ids, func(id string) error {
		if id == "id2" {
			return errors.New("failed to process id2")
		}
		return nil
	})

	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3", summary.Total)
	}
	if summary.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", summary.Succeeded)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if !stringSliceEqual(summary.FailedIDs, []string{"id2"}) {
		t.Errorf("FailedIDs = %v, want [id2]", summary.FailedIDs)
	}
	if len(summary.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(summary.Results))
	}

	if !summary.Results[0].Success {
		t.Error("results[0] should be success")
	}
	if summary.Results[1].Success {
		t.Error("results[1] should be failure")
	}
	if summary.Results[1].Error != "failed to process id2" {
		t.Errorf("results[1].Error = %q, want 'failed to process id2'", summary.Results[1].Error)
	}
	if !summary.Results[2].Success {
		t.Error("results[2] should be success")
	}

	if summary.AllSucceeded() {
		t.Error("AllSucceeded() should be false with one failure")
	}
}

func TestProcess_ContinuesPastFailures(t *testing.T) {
	ids := []string{"a", "b", "c"}
	var processed []string

	Process(ids, func(id string) error {
		processed = append(processed, id)
		return errors.New("boom")
	})

	if !stringSliceEqual(processed, ids) {
		t.Errorf("processed = %v, want all of %v", processed, ids)
	}
}

func TestProcess_AllSucceed(t *testing.T) {
	summary := Process([]string{"x", "y"}, func(string) error { return nil })

	if !summary.AllSucceeded() {
		t.Error("AllSucceeded() should be true")
	}
	if summary.FailedIDs != nil {
		t.Errorf("FailedIDs = %v, want nil", summary.FailedIDs)
	}
}

// Helper function to compare string slices
func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
