package registry

import "errors"

var (
	// ErrConfig reports an unusable interpreter or configuration.
	ErrConfig = errors.New("configuration error")

	// ErrSpec reports a package spec that cannot be resolved to a name.
	ErrSpec = errors.New("invalid package spec")

	// ErrSubprocess reports a failed provisioning or installer run.
	ErrSubprocess = errors.New("subprocess failed")

	// ErrNoScripts reports a package that published no scripts.
	ErrNoScripts = errors.New("did not find any scripts")

	// ErrNotInstalled reports an operation on a package that has no virtualenv.
	ErrNotInstalled = errors.New("not installed")
)
