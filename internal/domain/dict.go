package domain

import "time"

// Dict is the JSON-ready view an API layer returns for an entity.
type Dict = map[string]any

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optUnix(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Unix()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
