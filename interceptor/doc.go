// Package interceptor provides the stock request and response interceptors
// for network.Client: credential injection, logging with header masking,
// request correlation, static headers, client-side rate limiting and metrics.
//
// Every interceptor is safe to share between concurrent calls. Request
// interceptors clone the *http.Request before changing it and hand back the
// original when nothing changes.
package interceptor
