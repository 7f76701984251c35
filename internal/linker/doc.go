// Package linker finds the entry points a package installed into its
// virtualenv and publishes them into the shared bin directory. It also scans
// the bin directory for links that point back into a virtualenv.
package linker
