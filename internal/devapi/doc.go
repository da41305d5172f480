// Package devapi is an in-memory job board backend for local runs and
// integration tests of the client.
//
// It serves the same REST surface as the production API under /api, wraps
// every response in the {success, message?, data?} envelope, and issues
// short-lived HS256 access tokens alongside an opaque refresh_token cookie.
// A small control surface under /__dev lets tests and developers force
// status codes on individual routes, expire every access token at once and
// read the number of refresh calls served.
package devapi
