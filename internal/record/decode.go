package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// NewDecoder returns a json.Decoder configured for ReadValue.
func NewDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

// ReadValue reads the next complete JSON value from dec, keeping object key
// order. It returns io.EOF only when dec is exhausted between values; input
// that ends inside a value yields io.ErrUnexpectedEOF.
//
// dec must have UseNumber enabled (see NewDecoder) for numbers to keep their
// original text.
func ReadValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	v, err := readFrom(dec, tok)
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return v, err
}

func readFrom(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %v", keyTok)
			}
			valTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			v, err := readFrom(dec, valTok)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for dec.More() {
			valTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			v, err := readFrom(dec, valTok)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
}

// ErrTrailingData is returned by Parse when more input follows the value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// Parse decodes a single JSON document.
func Parse(data []byte) (any, error) {
	dec := NewDecoder(bytes.NewReader(data))
	v, err := ReadValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}
