// Package network provides a small, composable HTTP networking layer with
// an immutable request/response model, ordered request/response interceptor
// chains, default headers, and a closed error taxonomy.
//
// Execution
//   - Request paths are resolved against the configured base URL; absolute
//     URLs are used as-is. Query parameters are encoded sorted by key.
//   - Default headers are applied first, per-request headers win on conflict.
//   - Request interceptors run in registration order, each receiving the
//     previous interceptor's output.
//   - Response interceptors run in registration order BEFORE the status code
//     is classified, so they observe 4xx/5xx responses as ordinary responses.
//   - A status code outside 2xx is then returned as a *Error.
//
// Errors
//   - Every error returned by Client.Execute is a *Error. Branch on Kind or
//     use errors.Is against the exported sentinels (ErrNotFound, ErrTimeout...).
//   - Transport failures are classified once, by FromTransportError.
//
// Retries
//   - The client never retries. Wrap it with retry.Wrap, or wrap individual
//     calls with retry.Handler.Execute.
package network
