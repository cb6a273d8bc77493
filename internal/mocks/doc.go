// Package mocks provides hand-written test doubles for the interfaces the
// HTTP handlers and middleware depend on. Each mock exposes Fn fields to
// override behavior per test and falls back to simple default values.
package mocks
