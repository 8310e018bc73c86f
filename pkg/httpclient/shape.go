package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Shape はバックエンドのレスポンスボディのデコード方法を表す。
// 呼び出し側がバックエンドの契約に合わせて明示的に指定する。
type Shape int

const (
	// ShapeObject はボディが1つのJSONオブジェクトであることを表す。
	ShapeObject Shape = iota
	// ShapeArray はボディがJSON配列で、その要素を位置順にレコードへ割り当てることを表す。
	ShapeArray
	// ShapePrimitive はボディをレコードとして解釈せず、そのままデコードすることを表す。
	ShapePrimitive
)

// String はShapeの名前を返す。
func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	case ShapePrimitive:
		return "primitive"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Positional はJSON配列の要素を位置順に受け取って自身を構築するレコード。
// ShapeArray でデコードする結果の型が実装する。
type Positional interface {
	FromPositional(fields []json.RawMessage) error
}

var (
	// errNotObject はボディがJSONオブジェクトでないことを表す。
	errNotObject = errors.New("JSONオブジェクトではありません")
	// errNotArray はボディがJSON配列でないことを表す。
	errNotArray = errors.New("JSON配列ではありません")
	// errNotPositional は結果の型がPositionalを実装していないことを表す。
	errNotPositional = errors.New("結果の型がPositionalを実装していません")
)

// decode はshapeに従ってbodyをresultにデコードする。resultがnilの場合は形式の検査のみ行う。
func decode(shape Shape, body []byte, result any) error {
	var err error
	switch shape {
	case ShapeObject:
		err = decodeObject(body, result)
	case ShapeArray:
		err = decodeArray(body, result)
	case ShapePrimitive:
		err = decodePrimitive(body, result)
	default:
		err = fmt.Errorf("未知のShapeです: %d", int(shape))
	}
	if err != nil {
		return &DecodeError{Shape: shape, Err: err}
	}
	return nil
}

// decodeObject はJSONオブジェクトをresultにデコードする。
func decodeObject(body []byte, result any) error {
	if firstByte(body) != '{' {
		return errNotObject
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(body, result)
}

// decodeArray はJSON配列の要素を位置順にresultへ割り当てる。
func decodeArray(body []byte, result any) error {
	if firstByte(body) != '[' {
		return errNotArray
	}
	var fields []json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	p, ok := result.(Positional)
	if !ok {
		return errNotPositional
	}
	return p.FromPositional(fields)
}

// decodePrimitive はボディをそのままresultにデコードする。
func decodePrimitive(body []byte, result any) error {
	if result == nil {
		if !json.Valid(body) {
			return errors.New("不正なJSONです")
		}
		return nil
	}
	return json.Unmarshal(body, result)
}

// firstByte は空白を除いた最初のバイトを返す。
func firstByte(body []byte) byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
