package client

import "encoding/json"

// Entry is the envelope wrapped around a caller payload, one entry per
// physical line: {"id":"...","timestamp":<ms>,"data":"..."}. No version
// marker is stored; line kind is decided at parse time only.
type Entry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Data      string `json:"data"`
}

// encodeEntry serializes the envelope to one line of JSON.
func encodeEntry(e Entry) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodePayload extracts the caller payload from a raw line. A line that
// decodes as an envelope (JSON object carrying an id) yields its data field;
// any other line is a legacy bare payload returned unchanged. This decode is
// total and never fails.
func decodePayload(line string) string {
	var e Entry
	if err := json.Unmarshal([]byte(line), &e); err == nil && e.ID != "" {
		return e.Data
	}
	return line
}
