package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ToCell converts a flattened leaf value to its CSV cell text.
// JSON null becomes the empty string, the same as a missing column.
// Numbers keep their source text when they arrive as json.Number.
func ToCell(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case json.Number:
		return c.String()
	case bool:
		return strconv.FormatBool(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case int:
		return strconv.Itoa(c)
	case int32:
		return strconv.FormatInt(int64(c), 10)
	case uint64:
		return strconv.FormatUint(c, 10)
	case uint32:
		return strconv.FormatUint(uint64(c), 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case []byte:
		return string(c)
	case time.Time:
		return c.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(c)
	}
}
