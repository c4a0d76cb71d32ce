// Package wire is the JSON representation of the salon API, shared by the
// client and the reference server. Field names follow the API, which uses
// Portuguese identifiers.
package wire

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// TimeLayouts are the accepted timestamp formats, tried in order. The API
// may send local date-times without an offset.
var TimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func writeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Raw([]byte(d.String()))
}

func writeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.Format(time.RFC3339))
}

// readDecimal accepts a JSON number, a numeric string or null (zero).
func readDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.Null:
		return decimal.Zero, d.Null()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	default:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(string(n))
	}
}

// readStr reads a string, treating null as empty.
func readStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

func readInt(d *jx.Decoder) (int, error) {
	if d.Next() == jx.Null {
		return 0, d.Null()
	}
	return d.Int()
}

func readBool(d *jx.Decoder) (bool, error) {
	if d.Next() == jx.Null {
		return false, d.Null()
	}
	return d.Bool()
}

func readTime(d *jx.Decoder) (time.Time, error) {
	s, err := readStr(d)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	return ParseTime(s)
}

// ParseTime parses a timestamp in any of TimeLayouts.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range TimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised timestamp %q", s)
}

// EncodeError renders an error body: {"status":409,"message":"..."}.
func EncodeError(status int, message string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	return e.Bytes()
}

// DecodeErrorMessage extracts a human readable message from an error body.
// "message" is preferred over "error". Bodies that are not JSON objects yield "".
func DecodeErrorMessage(body []byte) string {
	var message, fallback string
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return ""
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "message":
			s, err := readStr(d)
			message = s
			return err
		case "error":
			s, err := readStr(d)
			fallback = s
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return ""
	}
	if message != "" {
		return message
	}
	return fallback
}
