package history

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/spf13/afero"
)

type History struct {
	items    []string
	fs       afero.Fs
	file     string
	maxItems int
	mu       sync.Mutex
}

// New loads the history kept in file. A missing file yields an empty history.
func New(fsys afero.Fs, file string, maxItems int) (*History, error) {
	h := &History{
		fs:       fsys,
		file:     file,
		maxItems: maxItems,
	}
	if err := h.load(); err != nil {
		return nil, err
	}
	return h, nil
}

// Add appends item and rewrites the history file.
func (h *History) Add(item string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = append(h.items, item)
	h.trim()
	return h.save()
}

func (h *History) GetAll() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string{}, h.items...)
}

func (h *History) trim() {
	if len(h.items) > h.maxItems {
		h.items = h.items[len(h.items)-h.maxItems:]
	}
}

func (h *History) load() error {
	file, err := h.fs.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.items = append(h.items, scanner.Text())
	}
	h.trim()
	return scanner.Err()
}

func (h *History) save() error {
	file, err := h.fs.OpenFile(h.file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, item := range h.items {
		if _, err := writer.WriteString(item + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
