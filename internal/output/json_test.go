package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSuccessResponse(t *testing.T) {
	resp := SuccessResponse(map[string]int{"total": 150})

	if !resp.Success {
		t.Error("Success should be true")
	}
	if resp.Data == nil {
		t.Error("Data should not be nil")
	}
	if resp.Error != "" || resp.Warnings != nil {
		t.Errorf("unexpected error or warnings: %q %v", resp.Error, resp.Warnings)
	}
	if resp.Version != Version {
		t.Errorf("Version should be %s, got %s", Version, resp.Version)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("Timestamp is not valid RFC3339: %v", err)
	}
}

func TestSuccessResponseWarnings(t *testing.T) {
	resp := SuccessResponse(nil, "service 4 is hidden", "service 9 is hidden")

	if !resp.Success {
		t.Error("warnings must not make a response fail")
	}
	if len(resp.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", resp.Warnings)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse(errors.New("catalog has a cycle"))

	if resp.Success {
		t.Error("Success should be false")
	}
	if resp.Error != "catalog has a cycle" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if resp.Data != nil {
		t.Error("Data should be nil for error response")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONData(&buf, map[string]int{"total": 150}, "stale"); err != nil {
		t.Fatalf("WriteJSONData failed: %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"success\": true") {
		t.Errorf("output is not indented:\n%s", buf.String())
	}

	var decoded struct {
		Success  bool           `json:"success"`
		Data     map[string]int `json:"data"`
		Warnings []string       `json:"warnings"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Data["total"] != 150 || len(decoded.Warnings) != 1 {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestWriteJSONErrorOmitsData(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONError(&buf, errors.New("boom")); err != nil {
		t.Fatalf("WriteJSONError failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "\"data\"") || strings.Contains(out, "\"warnings\"") {
		t.Errorf("error output should omit data and warnings:\n%s", out)
	}
	if !strings.Contains(out, "\"error\": \"boom\"") {
		t.Errorf("missing error field:\n%s", out)
	}
}
