package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a JSON value restricted to the shapes that appear in entity
// configuration and metadata maps. Numbers are kept as json.Number so a
// decode/encode cycle reproduces the original text exactly.
type Value struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
	list []Value
	m    Map
}

// Map is an open key-value document attached to an entity.
type Map map[string]Value

func String(s string) Value      { return Value{kind: KindString, str: s} }
func Number(n json.Number) Value { return Value{kind: KindNumber, num: n} }
func Int(i int64) Value          { return Number(json.Number(fmt.Sprintf("%d", i))) }
func Float(f float64) Value {
	b, _ := json.Marshal(f)
	return Number(json.Number(b))
}
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func Null() Value              { return Value{kind: KindNull} }
func List(vs ...Value) Value   { return Value{kind: KindList, list: vs} }
func Nested(m Map) Value       { return Value{kind: KindMap, m: m} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string variant, or "" for any other kind.
func (v Value) Str() string { return v.str }

// Num returns the number variant, or "" for any other kind.
func (v Value) Num() json.Number { return v.num }

// Truth returns the bool variant, or false for any other kind.
func (v Value) Truth() bool { return v.b }

// Items returns the list variant, or nil for any other kind.
func (v Value) Items() []Value { return v.list }

// Doc returns the nested map variant, or nil for any other kind.
func (v Value) Doc() Map { return v.m }

// MarshalJSON renders the value as plain JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.m)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON accepts any JSON value and tags it by shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case json.Delim:
		switch t {
		case '{':
			m := Map{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				m[key] = val
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Nested(m), nil
		case '[':
			list := []Value{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				list = append(list, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Value{kind: KindList, list: list}, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// MarshalJSON renders a nil map as an empty object so entity documents
// always round-trip as {} rather than null.
func (m Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := m[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts a JSON object.
func (m *Map) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if v.kind != KindMap {
		return fmt.Errorf("expected JSON object, got kind %d", v.kind)
	}
	*m = v.m
	return nil
}
