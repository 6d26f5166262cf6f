// Package assert panics when an internal assumption does not hold. It is for
// programmer errors only, never for bad input from the network.
package assert

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}
