package handler

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const dateLayout = "2006-01-02"

var errInvalidRequest = errors.New("invalid request")

// fields は structpb.Struct のリクエストから型付きで値を取り出します。
// null と未指定は同じ扱いです。
type fields map[string]*structpb.Value

func fieldsOf(req *structpb.Struct) fields {
	return fields(req.GetFields())
}

func (f fields) value(key string) (*structpb.Value, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

func (f fields) optionalString(key string) (*string, error) {
	v, ok := f.value(key)
	if !ok {
		return nil, nil
	}
	s, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return nil, fmt.Errorf("%w: %s must be a string", errInvalidRequest, key)
	}
	value := s.StringValue
	return &value, nil
}

func (f fields) string(key string) (string, error) {
	v, err := f.optionalString(key)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}

func (f fields) number(key string) (float64, error) {
	v, ok := f.value(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", errInvalidRequest, key)
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, fmt.Errorf("%w: %s must be a number", errInvalidRequest, key)
	}
	return n.NumberValue, nil
}

func (f fields) int(key string) (int, error) {
	v, ok := f.value(key)
	if !ok {
		return 0, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidRequest, key)
	}
	return int(n.NumberValue), nil
}

func (f fields) date(key string) (time.Time, error) {
	raw, err := f.string(key)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", errInvalidRequest, key)
	}
	return d, nil
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func optionalValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
