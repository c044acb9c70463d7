// Package tor provides proxied transports for the page fetcher.
//
// Two routes are supported besides a direct connection:
//   - Client: an existing SOCKS5 proxy (a local Tor daemon, an SSH -D
//     tunnel, a corporate proxy) given as "host:port".
//   - EmbeddedTor: a Tor daemon started and stopped by tagcount through
//     tornago, for fetching .onion pages without a separate install.
//
// Both hand out a plain *http.Client, so the fetch package never knows which
// route a request takes.
package tor
