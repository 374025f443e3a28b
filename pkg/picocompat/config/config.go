package config

// Config wraps a Pico configuration map for typed value extraction.
// Accessors return the supplied default when a key is missing or holds a
// value of the wrong type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal.
//
// Accepts int, int64 and float64 without a fractional part (JSON numbers).
func (c Config) Int(key string, defaultVal int) int {
	switch val := c.data[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal.
// A []any is accepted only if every element is a string.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	switch val := c.data[key].(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			result = append(result, s)
		}
		return result
	}
	return defaultVal
}

// Map returns a nested section as a Config, e.g. twig_config.
// A missing or non-map value yields an empty Config.
func (c Config) Map(key string) Config {
	switch val := c.data[key].(type) {
	case map[string]any:
		return New(val)
	case map[any]any:
		converted := make(map[string]any, len(val))
		for k, v := range val {
			if s, ok := k.(string); ok {
				converted[s] = v
			}
		}
		return New(converted)
	}
	return New(nil)
}

// Any returns the raw value for key, or defaultVal if missing.
func (c Config) Any(key string, defaultVal any) any {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	return v
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map. Legacy plugins receive this map by
// reference, so writes through it are visible to every holder.
func (c Config) Raw() map[string]any {
	return c.data
}

// Pico configuration keys.
const (
	KeyBaseURL    = "base_url"
	KeyRewriteURL = "rewrite_url"
	KeyContentDir = "content_dir"
	KeyContentExt = "content_ext"
	KeyTwigConfig = "twig_config"
	KeyTwigCache  = "cache"
)

// DefaultContentExt is used when content_ext is not configured.
const DefaultContentExt = ".md"

// BaseURL returns base_url, or "" if unset.
func (c Config) BaseURL() string {
	return c.String(KeyBaseURL, "")
}

// URLRewriting returns rewrite_url, false if unset.
func (c Config) URLRewriting() bool {
	return c.Bool(KeyRewriteURL, false)
}

// ContentDir returns content_dir, or "" if unset.
func (c Config) ContentDir() string {
	return c.String(KeyContentDir, "")
}

// ContentExt returns content_ext, or DefaultContentExt.
func (c Config) ContentExt() string {
	return c.String(KeyContentExt, DefaultContentExt)
}

// TwigCache returns twig_config.cache. Pico stores false there to
// disable caching, which maps to "".
func (c Config) TwigCache() string {
	return c.Map(KeyTwigConfig).String(KeyTwigCache, "")
}
