package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Text is a string field of a document written by other processes. Numbers and
// booleans stored in its place decode to their text form instead of failing
// the whole document.
type Text string

func (t *Text) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: typ, Value: data}
	switch typ {
	case bsontype.String:
		*t = Text(rv.StringValue())
	case bsontype.Int32:
		*t = Text(strconv.FormatInt(int64(rv.Int32()), 10))
	case bsontype.Int64:
		*t = Text(strconv.FormatInt(rv.Int64(), 10))
	case bsontype.Double:
		*t = Text(strconv.FormatFloat(rv.Double(), 'f', -1, 64))
	case bsontype.Decimal128:
		*t = Text(rv.Decimal128().String())
	case bsontype.Boolean:
		*t = Text(strconv.FormatBool(rv.Boolean()))
	case bsontype.Null, bsontype.Undefined:
		*t = ""
	default:
		*t = Text(rv.String())
	}
	return nil
}

func (t *Text) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(x)
	case float64, bool:
		*t = Text(strings.TrimSpace(string(data)))
	default:
		return errors.Errorf("cannot use %T as text", v)
	}
	return nil
}

// Amount is a numeric field of a document written by other processes. Numeric
// strings are parsed; anything else stored in the database reads as zero.
type Amount float64

func (a *Amount) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: typ, Value: data}
	switch typ {
	case bsontype.Double:
		*a = Amount(rv.Double())
	case bsontype.Int32:
		*a = Amount(rv.Int32())
	case bsontype.Int64:
		*a = Amount(rv.Int64())
	case bsontype.Decimal128:
		*a = parseStoredAmount(rv.Decimal128().String())
	case bsontype.String:
		*a = parseStoredAmount(rv.StringValue())
	default:
		*a = 0
	}
	return nil
}

func parseStoredAmount(s string) Amount {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Amount(f)
}

// UnmarshalJSON accepts a number or a numeric string. Client input that is
// neither is an error.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*a = 0
	case float64:
		*a = Amount(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return errors.Errorf("invalid amount %q", x)
		}
		*a = Amount(f)
	default:
		return errors.Errorf("cannot use %T as amount", v)
	}
	return nil
}
