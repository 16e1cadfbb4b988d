// Package api contains the HTTP request handlers, request/response
// models, and the single error-to-response boundary. Handlers are pure
// orchestration: decode, validate, call a store, map the result into
// the response envelope. Every failure funnels through HandleAPIError.
package api
