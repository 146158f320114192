package domain

// InboxResult reports one upload attempted by the inbox watcher.
type InboxResult struct {
	// Path is the file on disk.
	Path string

	// DocID is the new backend document, empty when Err is set.
	DocID string

	// Err is the upload failure, if any.
	Err error
}
