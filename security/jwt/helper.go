package jwt

// getPayload extracts payload from token claims
func getPayload(claims map[string]any) (map[string]any, bool) {
	if payload, ok := claims["payload"].(map[string]any); ok {
		return payload, true
	}
	return nil, false
}

// getString safely extracts string value from a claims map
func getString(m map[string]any, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// PayloadString returns a string payload value or "".
func (c *Claims) PayloadString(key string) string {
	if c == nil {
		return ""
	}
	return getString(c.Payload, key)
}

// Code returns the single-use code carried by an action token.
func (c *Claims) Code() string {
	return c.PayloadString("code")
}
