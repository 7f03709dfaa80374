package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Encode renders v as compact JSON text. Object keys keep their order and
// strings are not HTML-escaped, so `{"a":"<b>"}` round-trips unchanged.
func Encode(v any) string {
	var buf bytes.Buffer
	writeJSON(&buf, v)
	return buf.String()
}

func writeJSON(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case *Object:
		buf.WriteByte('{')
		i := 0
		for el := t.Front(); el != nil; el = el.Next() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, el.Key)
			buf.WriteByte(':')
			writeJSON(buf, el.Value)
			i++
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSON(buf, item)
		}
		buf.WriteByte(']')
	case string:
		writeString(buf, t)
	case json.Number:
		buf.WriteString(t.String())
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	default:
		b, err := json.Marshal(t)
		if err != nil {
			writeString(buf, fmt.Sprint(t))
			return
		}
		buf.Write(b)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
}
