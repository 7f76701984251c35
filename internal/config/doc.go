// Package config manages user-level settings stored at ~/.venvbin/config.yaml.
// Every key can also be supplied through a VENVBIN_<KEY> environment
// variable or the matching command-line flag.
package config
