// Package models holds the canonical client-side shapes of FocusMode
// records.
//
// Records are camelCase on the client and in the local cache. The remote
// client maps the server's snake_case payloads into these types, so callers
// never branch on which store answered.
//
// Every record carries a Meta block describing its sync state: whether the
// server knows about it, which verbs still need to be pushed and whether it
// was deleted while offline.
package models
