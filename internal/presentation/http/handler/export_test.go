package handler

// WithMaxImportSize lowers the import limit so tests can exceed it cheaply
func (h *BackupHandler) WithMaxImportSize(n int64) *BackupHandler {
	h.maxSize = n
	return h
}
