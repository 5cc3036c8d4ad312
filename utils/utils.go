package utils

import (
	"encoding/json"
)

// EncodeURLList packs attachment URLs into the JSON text column used on
// inward and QC documents.
func EncodeURLList(urls []string) string {
	if len(urls) == 0 {
		return "[]"
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func DecodeURLList(s string) []string {
	var urls []string
	if s == "" {
		return urls
	}
	_ = json.Unmarshal([]byte(s), &urls)
	return urls
}
