package sqlite

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// driverValues converts caller-supplied arguments to the restricted set of
// types the database/sql/driver interface accepts.
func driverValues(args []any) ([]driver.Value, error) {
	if len(args) == 0 {
		return nil, nil
	}

	values := make([]driver.Value, len(args))
	for i, arg := range args {
		v, err := driverValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

func driverValue(arg any) (driver.Value, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case int64, float64, bool, []byte, string, time.Time:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > 1<<63-1 {
			return nil, fmt.Errorf("uint64 value %d overflows int64", v)
		}
		return int64(v), nil
	case float32:
		return float64(v), nil
	case driver.Valuer:
		return v.Value()
	default:
		return nil, fmt.Errorf("unsupported argument type %T", arg)
	}
}
