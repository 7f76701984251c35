// Package runtime drives the external processes a virtualenv depends on: the
// target Python interpreter, the environment provisioner (venv or
// virtualenv) and pip. Questions about a virtualenv's contents are answered
// by shipping small Python payloads into its interpreter through the
// Introspector interface; their output format is line oriented and stable.
package runtime
