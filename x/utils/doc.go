/*
Package utils contains various utils for middleware.

These provide the outer shell around handler execution: recover
from panics, isolate writes behind a savepoint and log every
transaction as it passes through.
*/
package utils
