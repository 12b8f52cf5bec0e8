package colors

import (
	"fmt"
	"net/http"

	"github.com/fatih/color"
)

var (
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
)

// Status renders an HTTP status code, red for errors, yellow for client
// mistakes and green otherwise.
func Status(code int) string {
	switch {
	case code >= http.StatusInternalServerError:
		return Red(code)
	case code >= http.StatusBadRequest:
		return Yellow(code)
	default:
		return Green(code)
	}
}

// Latency renders a request duration in brackets.
func Latency(d interface{}) string {
	return Blue(fmt.Sprintf("[%v]", d))
}
