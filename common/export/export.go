package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apexline/racedata/common/logger"
)

// Writer saves fetched documents as indented UTF-8 JSON files under
// root/folder, creating directories as needed. Write failures are reported
// to the caller; by convention they are logged and the run continues, since
// a failed export should not abort a fetch that already succeeded.
type Writer struct {
	root   string
	folder string
	log    *logger.Logger
}

// NewWriter creates a writer rooted at root/folder
func NewWriter(root, folder string, log *logger.Logger) *Writer {
	return &Writer{
		root:   root,
		folder: folder,
		log:    log,
	}
}

// Dir returns the directory exports are written into
func (w *Writer) Dir() string {
	return filepath.Join(w.root, w.folder)
}

// WriteJSON marshals v with 4-space indentation and writes it to fileName
// inside the export directory.
func (w *Writer) WriteJSON(fileName string, v any) error {
	dir := w.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", fileName, err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w.log.Info("exported document", "path", path, "bytes", len(data))
	return nil
}
