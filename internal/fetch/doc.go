// Package fetch retrieves a single web page over HTTP.
//
// The Fetcher issues exactly one GET request and returns the body as UTF-8
// text. The HTTP status is recorded but not judged: an error page is still a
// page and its elements are still counted. Only failures to complete the
// request (DNS, refused connection, reset, cancelled context) are errors,
// reported as *TransportError wrapping the net/http error.
//
// The *http.Client is injected. It decides the route (direct, SOCKS5, Tor)
// and any timeout; the default client has none.
package fetch
