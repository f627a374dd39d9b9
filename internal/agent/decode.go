package agent

import (
	"bytes"
	"encoding/json"

	"github.com/spachava753/webmall-eval/internal/models"
)

// DecodeTrace interprets agent stdout. A JSON object with a "history" list
// that ends the output becomes a TraceAvailable. The object may follow log
// lines as long as it starts on a line of its own, compact or indented.
// Anything else is kept verbatim as a TraceUnavailable.
func DecodeTrace(stdout []byte) (models.Trace, *models.Usage) {
	if h, ok := decodeHistory(stdout); ok {
		return models.TraceAvailable{History: h}, h.Usage
	}
	if h, ok := trailingHistory(stdout); ok {
		return models.TraceAvailable{History: h}, h.Usage
	}
	return models.TraceUnavailable{Raw: string(stdout)}, nil
}

// trailingHistory tries every line opening with '{', last first, as the
// start of a history document running to the end of the output.
func trailingHistory(stdout []byte) (models.History, bool) {
	trimmed := bytes.TrimRight(stdout, " \t\r\n")
	for end := len(trimmed); end > 0; {
		i := bytes.LastIndexByte(trimmed[:end], '\n')
		if i < 0 {
			break
		}
		if rest := trimmed[i+1:]; len(rest) > 0 && rest[0] == '{' {
			if h, ok := decodeHistory(rest); ok {
				return h, true
			}
		}
		end = i
	}
	return models.History{}, false
}

func decodeHistory(data []byte) (models.History, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return models.History{}, false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return models.History{}, false
	}
	if _, ok := probe["history"]; !ok {
		return models.History{}, false
	}

	var h models.History
	if err := json.Unmarshal(data, &h); err != nil {
		return models.History{}, false
	}
	return h, true
}
