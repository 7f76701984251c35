// Package platform isolates the filesystem behaviour that differs between
// operating systems: canonical path comparison, the layout of a virtualenv,
// executable detection, and how a script is published into the shared bin
// directory. On Unix systems scripts are published as symlinks; on Windows
// they are copied, always overwriting the destination.
package platform
