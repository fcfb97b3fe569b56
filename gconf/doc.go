/*
Package gconf provides a toolset for managing an extension
configuration. Every extension can save its configuration as a
singleton in the store and load it back when handling a request.
*/
package gconf
