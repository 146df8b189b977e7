// Package httprpc carries the container-page and core RPC contracts over
// JSON and HTTP.
//
// Every operation is a POST to /rpc/{operation}. Successful calls answer
// 200 with {"result": ...}; failures answer with a status derived from the
// error category and {"error": {"category", "textCode", "message"}}.
//
// The Server exposes any implementation of the two contracts, typically the
// in-process backend. The Client implements both contracts on top of a
// Server and restores error categories on the way back.
package httprpc
