package core

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Call 一次获取调用的参数集合。
// Args 为位置参数，Kwargs 为命名参数。
type Call struct {
	Args   []any
	Kwargs map[string]any
}

// NewCall 从位置参数构建 Call。
func NewCall(args ...any) Call {
	return Call{Args: args}
}

// KeyFunc 将调用参数编码为规范的缓存键。
// 相同的逻辑输入必须产生完全相同的字符串。
type KeyFunc func(call Call) (string, error)

// DefaultKeyFunc 默认的参数编码器。
// 构建 {"args": ..., "kwargs": ...} 结构后序列化为 JSON；
// 映射类型的键会被排序，无法序列化的值退化为其字符串表示，
// 因此对任意输入都是全函数且确定性的。
func DefaultKeyFunc(call Call) (string, error) {
	payload := map[string]any{
		"args":   normalizeSlice(call.Args),
		"kwargs": normalizeMap(reflect.ValueOf(call.Kwargs)),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode call arguments: %w", err)
	}

	return string(data), nil
}

// normalize 将值递归转换为可确定性序列化的形式。
func normalize(v any) any {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v

	case reflect.Float32, reflect.Float64:
		// NaN/Inf 无法表示为 JSON，退化为字符串
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Sprint(v)
		}
		return v

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out

	case reflect.Map:
		return normalizeMap(rv)

	case reflect.Struct:
		// 结构体字段顺序由类型决定，本身是确定性的；
		// 序列化失败时（内嵌不可序列化值）退化为字符串
		if data, err := json.Marshal(v); err == nil {
			return json.RawMessage(data)
		}
		return fmt.Sprint(v)

	default:
		// func、chan、complex 等无法序列化的类型
		return fmt.Sprint(v)
	}
}

// normalizeMap 将任意映射转换为键已字符串化的 map[string]any。
// encoding/json 对 map 键按序输出，因此插入顺序不影响结果。
func normalizeMap(rv reflect.Value) any {
	if !rv.IsValid() || rv.IsNil() {
		return map[string]any{}
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value().Interface())
	}
	return out
}

func normalizeSlice(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = normalize(a)
	}
	return out
}
