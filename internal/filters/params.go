package filters

// Params holds a stream's decode parameters with PDF values converted to
// Go values: int, float64, bool or string.
type Params map[string]interface{}

// Int returns the integer parameter key, or def if it is missing or not a
// number.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the boolean parameter key, or def.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Name returns the name or string parameter key, or def.
func (p Params) Name(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}
