// Package models defines the payloads exchanged with the records service
// and the client-side session types built from them.
package models
