// Package mocks provides centralized mock implementations for testing.
//
// Each mock carries optional function fields that override its behavior per
// test, backed by a simple in-memory default so most tests need no setup
// beyond the constructor.
package mocks
