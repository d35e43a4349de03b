// Package reconcile turns a record imported from the lookup window into
// the field writes applied to an instance's settings.
//
// Every function returns one partial record. Callers apply it with a
// single merged write; applying the fields one by one would race with the
// host's wholesale replacement of settings.
package reconcile
