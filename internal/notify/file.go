package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hamed0406/hostmon/internal/domain"
)

// File appends each event as a JSON line.
type File struct {
	mu   sync.Mutex
	Path string
}

func NewFile(path string) *File {
	if path == "" {
		return nil
	}
	return &File{Path: path}
}

func (f *File) Name() string { return "file" }

func (f *File) Notify(_ context.Context, ev domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create alert dir: %w", err)
	}
	fh, err := os.OpenFile(f.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open alert file: %w", err)
	}
	if err := json.NewEncoder(fh).Encode(ev); err != nil {
		fh.Close()
		return fmt.Errorf("write alert file: %w", err)
	}
	return fh.Close()
}
