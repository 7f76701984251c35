// Package registry is the package repository: it resolves install specs,
// provisions one virtualenv per package under the home directory, publishes
// the package's scripts into the bin directory, and keeps a record of what it
// published so upgrade and uninstall can reconcile against it.
package registry
