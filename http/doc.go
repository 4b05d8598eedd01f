// Package http serves the roster REST API.
//
// # Routes
//
//	GET    /v1/             API version
//	POST   /v1/users        create a user, returns the stored record
//	GET    /v1/users/{id}   fetch a user
//	DELETE /v1/users/{id}   delete a user, returns the deleted record
//	GET    /healthz         database ping (when configured)
//	GET    /metrics         Prometheus metrics (when configured)
//
// Errors are JSON bodies of the form {"error": code, "message": text}:
//
//   - 400 malformed JSON or a non-integer id
//   - 404 unknown user
//   - 422 a field is missing or longer than 255 characters
//   - 500 anything else; details are logged, not returned
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    CORS:   http.DefaultCORSConfig(),
//	    Health: mgr,
//	}, service)
//
//	srv := &net_http.Server{Addr: ":8080", Handler: handler.Router()}
//
// Every request gets an X-Request-ID, is logged once served, and is
// recovered from panics.
package http
