package wire

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Credentials is the login body.
type Credentials struct {
	Username string
	Password string
}

// Token is the login response. The session itself travels in a cookie;
// AccessToken may also be sent as a bearer token.
type Token struct {
	AccessToken string
	ExpiresIn   int64
}

// EncodeCredentials renders {"username":..,"password":..}.
func EncodeCredentials(c Credentials) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("username")
	e.Str(c.Username)
	e.FieldStart("password")
	e.Str(c.Password)
	e.ObjEnd()
	return e.Bytes()
}

// DecodeCredentials parses a login body.
func DecodeCredentials(body []byte) (Credentials, error) {
	var c Credentials
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "username":
			c.Username, err = readStr(d)
		case "password":
			c.Password, err = readStr(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return Credentials{}, errors.Wrap(err, "decode credentials")
	}
	return c, nil
}

// EncodeToken renders {"accessToken":..,"expiresIn":..}.
func EncodeToken(t Token) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("accessToken")
	e.Str(t.AccessToken)
	e.FieldStart("expiresIn")
	e.Int64(t.ExpiresIn)
	e.ObjEnd()
	return e.Bytes()
}

// DecodeToken parses a login response.
func DecodeToken(body []byte) (Token, error) {
	var t Token
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "accessToken":
			t.AccessToken, err = readStr(d)
		case "expiresIn":
			if d.Next() == jx.Null {
				return d.Null()
			}
			t.ExpiresIn, err = d.Int64()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return Token{}, errors.Wrap(err, "decode token")
	}
	return t, nil
}
