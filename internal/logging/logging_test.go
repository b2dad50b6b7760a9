package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Level(t *testing.T) {
	if got := New("debug").GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
	if got := New("nonsense").GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level = %v, want info fallback", got)
	}
}

func TestLogError_Fields(t *testing.T) {
	logger := New("info")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	LogError(logger, "bills", "CreateBill", "insert bill", map[string]int{"user_id": 7}, errors.New("boom"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["module"] != "bills" || entry["funcName"] != "CreateBill" || entry["msg"] != "boom" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["data"]; !ok {
		t.Error("data field missing")
	}

	buf.Reset()
	LogError(logger, "bills", "GetBill", "select", nil, errors.New("x"))
	entry = nil
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if _, ok := entry["data"]; ok {
		t.Error("data field should be omitted when nil")
	}
}
