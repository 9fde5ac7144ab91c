package filtergraph

import (
	"fmt"
	"strconv"
	"strings"
)

// Param is one filter parameter. Values are scalars: numbers, strings or
// booleans.
type Param struct {
	Key   string
	Value any
}

// Params is an insertion-ordered parameter list. Order is preserved in the
// rendered filter string, which is why this is a slice and not a map.
type Params []Param

// Set replaces the value for key in place, or appends when absent.
func (p *Params) Set(key string, value any) *Params {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return p
		}
	}
	*p = append(*p, Param{key, value})
	return p
}

// Get returns the value for key.
func (p Params) Get(key string) (any, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

const specialChars = ":,[]\\"

var paramEscaper = strings.NewReplacer(
	"\\", "\\\\",
	":", "\\:",
	",", "\\,",
	"[", "\\[",
	"]", "\\]",
)

// escapeParam renders a scalar parameter value for the filter string.
// Numbers keep their plain decimal form. Any other value is stringified; when
// it contains one of the characters : , [ ] \ every backslash is doubled, the
// specials are backslash-escaped and the result is wrapped in single quotes.
// Values without specials pass through bare.
func escapeParam(v any) string {
	switch x := v.(type) {
	case string:
		return escapeString(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	default:
		return escapeString(fmt.Sprint(v))
	}
}

func escapeString(s string) string {
	if !strings.ContainsAny(s, specialChars) {
		return s
	}
	return "'" + paramEscaper.Replace(s) + "'"
}
