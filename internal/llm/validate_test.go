package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testProblemSchema() *Schema {
	return &Schema{
		Name:        "problem-text",
		Description: "Math problem read from an image",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"problem_text": map[string]any{"type": "string"},
				"confidence":   map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required":             []any{"problem_text", "confidence"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"problem_text":"2+2","confidence":0.5}`, false},
		{"missing required", `{"problem_text":"2+2"}`, true},
		{"wrong type", `{"problem_text":2,"confidence":0.5}`, true},
		{"out of range", `{"problem_text":"2+2","confidence":1.5}`, true},
		{"extra property", `{"problem_text":"2+2","confidence":0.5,"x":1}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testProblemSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_SameNameDifferentShape(t *testing.T) {
	loose := &Schema{
		Name:       "problem-text",
		Definition: map[string]any{"type": "object"},
	}
	raw := json.RawMessage(`{"whatever":true}`)

	if err := validateResponse(loose, raw); err != nil {
		t.Fatalf("loose schema rejected: %v", err)
	}
	if err := validateResponse(testProblemSchema(), raw); err == nil {
		t.Fatal("strict schema with the same name accepted loose input")
	}
}
