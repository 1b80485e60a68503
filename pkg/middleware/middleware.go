// Package middleware holds HTTP middleware shared by the API routers.
package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler
