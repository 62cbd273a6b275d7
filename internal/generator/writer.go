package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/source"
)

// WriteGraph serializes g to path, choosing the encoding from the extension.
func WriteGraph(g domain.Graph, path string) error {
	format, err := source.FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := source.Encode(file, g, format); err != nil {
		return fmt.Errorf("encode %s for %s: %w", format, path, err)
	}
	return nil
}

// WriteGraphTo serializes g to w in the given format.
func WriteGraphTo(w io.Writer, g domain.Graph, format source.Format) error {
	return source.Encode(w, g, format)
}
