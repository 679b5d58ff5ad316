package container

import (
	"runtime"
	"strconv"
	"strings"
)

// goid returns the id of the calling goroutine, parsed from its stack
// header ("goroutine 42 [running]:").
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))[0]
	id, _ := strconv.ParseInt(field, 10, 64)
	return id
}
