package ports

// Watcher monitors a plugin directory and reports changes to source files.
// The adapter filters out non-source files and excluded directories before
// invoking onChange. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring root recursively. onChange is called with the
	// absolute path of each changed file, possibly from another goroutine.
	// Returns an error if root doesn't exist or can't be read.
	Watch(root string, onChange func(path string)) error

	// Stop ends monitoring. After Stop returns no further onChange calls fire.
	// Safe to call multiple times.
	Stop() error
}
