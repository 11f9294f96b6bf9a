// AngelaMos | 2026
// methods.go

package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

// MethodNotAllowed answers with a plain text 405 and an Allow header that
// lists exactly the given methods. Install it on each chi sub-router so the
// header matches the operations registered for that path.
func MethodNotAllowed(methods ...string) http.HandlerFunc {
	allow := strings.Join(methods, ", ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = fmt.Fprintf(w, "Method %s Not Allowed", r.Method)
	}
}
