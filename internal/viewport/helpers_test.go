package viewport

import (
	"encoding/json"
	"testing"

	"github.com/zhubert/tgterm/internal/protocol"
)

func decode(t *testing.T, r protocol.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(r.Payload, &body); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	return body
}
