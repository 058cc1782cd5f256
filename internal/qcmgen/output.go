package qcmgen

import (
	"path/filepath"
	"strings"
	"unicode"
)

// FileName derives a QCM file name from a topic, e.g. "TCP/IP basics" →
// "tcp-ip-basics.json".
func FileName(topic string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(topic) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimRight(b.String(), "-")
	if name == "" {
		name = "generated"
	}
	return name + ".json"
}

// OutputPath returns out when set, otherwise dir joined with FileName(topic).
func OutputPath(dir, topic, out string) string {
	if out != "" {
		return out
	}
	return filepath.Join(dir, FileName(topic))
}
