package middleware

import (
	"net/http"

	"github.com/MrEthical07/jwtservice"
)

// Optional attaches claims when the request carries a bearer token and lets
// anonymous requests through. A token that is present but fails
// verification is still rejected with 401.
func Optional(svc *jwtservice.Service) func(http.Handler) http.Handler {
	guard := Guard(svc)
	return func(next http.Handler) http.Handler {
		guarded := guard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}
