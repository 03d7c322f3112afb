// Package textutil 提供抓取与报表共用的文本清洗工具，全部为纯函数。
package textutil

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ErrNotANumber 数字解析失败
var ErrNotANumber = errors.New("not a number")

// CleanSpaces 将连续空白（含 \r \n \t 及其他 Unicode 空白）折叠为一个空格并去掉首尾空白
// 空白字符集与 JS 正则的 \s 一致：包含 U+FEFF，不含 U+0085。
func CleanSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func isSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// Normalize 先做 NFKC 规范化再 CleanSpaces
// 页面文本里常见的不换行空格、全角数字等兼容字符会被还原
func Normalize(s string) string {
	return CleanSpaces(norm.NFKC.String(s))
}

// ToNum 解析带小数逗号的数字，例如 "12,50" -> 12.5
// 只替换第一个逗号，"1,234,5" 这类千分位写法会解析失败。
// 失败时返回 NaN 和包装了 ErrNotANumber 的错误，调用方应先检查错误再参与运算。
func ToNum(s string) (float64, error) {
	t := strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if t == "" {
		return math.NaN(), fmt.Errorf("%w: empty input", ErrNotANumber)
	}

	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return v, nil
}

// SafeJoin 将各部分转为字符串（nil 视为空串），丢弃空串后用 sep 连接，再执行 CleanSpaces
func SafeJoin(parts []any, sep string) string {
	strs := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := toString(p); s != "" {
			strs = append(strs, s)
		}
	}
	return CleanSpaces(strings.Join(strs, sep))
}

// Join 以空格连接，等价于 SafeJoin(parts, " ")
func Join(parts ...any) string {
	return SafeJoin(parts, " ")
}

func toString(v any) string {
	if isNil(v) {
		return ""
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		return *x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// isNil 判断 v 是否为 nil，包括带类型的 nil 指针
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
