package payhere

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// decodedBody is a notification body parsed into its full structure and a flat
// view of its scalar top-level fields.
type decodedBody struct {
	raw    any
	fields map[string]string
}

// decodeBody parses a JSON object or a form-urlencoded body. Anything else is
// kept as an opaque string with no fields.
func decodeBody(rawBody []byte) decodedBody {
	trimmed := bytes.TrimSpace(rawBody)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		if obj, ok := decodeJSONObject(trimmed); ok {
			return decodedBody{raw: obj, fields: flattenJSON(obj)}
		}
		return decodedBody{raw: string(rawBody)}
	}

	if bytes.IndexByte(trimmed, '=') > 0 {
		if values := parseForm(string(trimmed)); len(values) > 0 {
			return decodeForm(values)
		}
	}

	return decodedBody{raw: string(rawBody)}
}

func decodeJSONObject(b []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(b))
	// keep numbers as their literal text, "100.00" must not become 100
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return obj, true
}

func flattenJSON(obj map[string]any) map[string]string {
	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			if val != "" {
				fields[k] = val
			}
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = strconv.FormatBool(val)
		}
	}
	return fields
}

// parseForm splits on '&' only. url.ParseQuery rejects the whole body on a ';',
// which free-text fields such as custom_1 may contain. A pair that fails to
// unescape keeps its raw text.
func parseForm(body string) url.Values {
	values := url.Values{}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescapeFormValue(key)
		if key == "" {
			continue
		}
		values.Add(key, unescapeFormValue(value))
	}
	return values
}

func unescapeFormValue(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

func decodeForm(values url.Values) decodedBody {
	raw := make(map[string]any, len(values))
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		raw[k] = v[0]
		if v[0] != "" {
			fields[k] = v[0]
		}
	}
	return decodedBody{raw: raw, fields: fields}
}

// first returns the value of the first present key
func (d decodedBody) first(keys ...string) string {
	for _, k := range keys {
		if v, ok := d.fields[k]; ok {
			return v
		}
	}
	return ""
}
