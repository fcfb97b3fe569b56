/*
Package custodiatest provides mocks and helpers for testing
handlers and decorators. Mocks implement the host interfaces with
fully controlled, deterministic behaviour.
*/
package custodiatest
