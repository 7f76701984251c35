// Package userdata resolves the default locations venvbin works in (the
// virtualenv home and the shared bin directory) and checks their health for
// the doctor command.
package userdata
