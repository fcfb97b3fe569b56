/*
Package x contains some standard extensions

Extensions implement custom logic for the state machine in a
standardized manner. They are associated with a message path prefix
and all messages under that prefix are routed to their handlers.

This top-level package holds the interfaces shared between
extensions, above all the Authenticator used to check who signed
off on the current transaction. Sub-packages contain the actual
extensions and supporting middleware.
*/
package x
