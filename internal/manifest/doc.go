// Package manifest persists the per-virtualenv package record
// (package_info.json) and validates it against an embedded JSON Schema.
// When a virtualenv has no record, Store rebuilds one from what is installed
// and published.
package manifest
