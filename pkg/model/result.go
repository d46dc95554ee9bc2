package model

// DownloadResult is the outcome of one dependency task. No error escapes a
// task as a panic or unwinding condition; failures are encoded here.
type DownloadResult struct {
	Dependency Dependency
	// Path is the local artifact path the task targeted, set on success and
	// failure alike.
	Path string
	// Optional mirrors the flag the parent attached to this dependency.
	// Failed optional results are dropped from aggregated transitive lists.
	Optional bool
	Success  bool
	// Err carries the failure cause when Success is false.
	Err error
	// Transitive holds child outcomes in submission order.
	Transitive []DownloadResult
}

// NewSuccessResult builds a successful result with the given transitive
// outcomes.
func NewSuccessResult(dep Dependency, path string, optional bool, transitive []DownloadResult) DownloadResult {
	return DownloadResult{
		Dependency: dep,
		Path:       path,
		Optional:   optional,
		Success:    true,
		Transitive: transitive,
	}
}

// NewFailureResult builds a failed result carrying err.
func NewFailureResult(dep Dependency, path string, optional bool, err error) DownloadResult {
	return DownloadResult{
		Dependency: dep,
		Path:       path,
		Optional:   optional,
		Err:        err,
	}
}
