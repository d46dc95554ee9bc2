package fsutil

// File and directory permission constants. These follow standard Unix
// permission conventions and are used consistently throughout the
// application.
const (
	// FileModeDefault is the mode for downloaded artifacts and descriptors.
	FileModeDefault = 0o644 // -rw-r--r--

	// DirModeDefault is the mode for created directories.
	DirModeDefault = 0o755 // drwxr-xr-x
)

// TempSuffix is appended to a target path while its contents are being
// written. A file at the final path never holds partial contents.
const TempSuffix = ".tmp"
