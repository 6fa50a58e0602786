package contained

import "errors"

// Errors returned by the contained-document layer.
var (
	// ErrUnknownRegion indicates the coordinator has no region for the key.
	ErrUnknownRegion = errors.New("unknown region key")

	// ErrNilBuffer indicates a required buffer handle could not be resolved.
	ErrNilBuffer = errors.New("buffer handle not resolved")

	// ErrNilWorkspace indicates the adapter was created without a workspace.
	ErrNilWorkspace = errors.New("nil workspace")

	// ErrNilDiagnostics indicates the adapter was created without a
	// diagnostics service.
	ErrNilDiagnostics = errors.New("nil diagnostics service")

	// ErrNilCoordinator indicates the adapter was created without a
	// buffer coordinator.
	ErrNilCoordinator = errors.New("nil coordinator")
)
