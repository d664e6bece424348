package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const maskValue = "******"

// MaskHook replaces the values of sensitive fields before an entry is written.
type MaskHook struct {
	fields map[string]struct{}
}

// NewMaskHook creates a MaskHook for the given field names (case-insensitive).
func NewMaskHook(fields []string) *MaskHook {
	h := &MaskHook{fields: make(map[string]struct{}, len(fields))}
	for _, f := range fields {
		h.fields[strings.ToLower(f)] = struct{}{}
	}
	return h
}

// Levels returns all log levels
func (h *MaskHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire masks sensitive fields, including nested string maps.
func (h *MaskHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		if h.sensitive(key) {
			entry.Data[key] = maskValue
			continue
		}
		if m, ok := value.(map[string]any); ok {
			entry.Data[key] = h.maskMap(m)
		}
	}
	return nil
}

func (h *MaskHook) maskMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch {
		case h.sensitive(k):
			out[k] = maskValue
		default:
			if nested, ok := v.(map[string]any); ok {
				out[k] = h.maskMap(nested)
				continue
			}
			out[k] = v
		}
	}
	return out
}

func (h *MaskHook) sensitive(key string) bool {
	_, ok := h.fields[strings.ToLower(key)]
	return ok
}
