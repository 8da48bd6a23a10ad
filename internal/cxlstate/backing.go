package cxlstate

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// BackingFile is a memory-mapped file backing an Mld's payload memory:
// open, size, map, defer unmap — against a plain regular file rather
// than a VFIO region.
type BackingFile struct {
	Path string
	data []byte
	f    *os.File
}

// OpenBackingFile creates (or truncates) path to size bytes and maps
// it shared read/write. The caller owns the returned file and must
// call Close to unmap and release it.
func OpenBackingFile(dir string, ppid uint16, size uint64) (*BackingFile, error) {
	path := filepath.Join(dir, fmt.Sprintf("port%02d", ppid))

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cxlstate: open backing file %s: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("cxlstate: truncate backing file %s to %d: %w", path, size, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cxlstate: mmap backing file %s: %w", path, err)
	}

	return &BackingFile{Path: path, data: data, f: f}, nil
}

// ReadAt copies len(out) bytes starting at offset into out.
func (b *BackingFile) ReadAt(out []byte, offset uint64) error {
	if offset+uint64(len(out)) > uint64(len(b.data)) {
		return fmt.Errorf("cxlstate: read [%d,%d) out of range for %d-byte backing file", offset, offset+uint64(len(out)), len(b.data))
	}
	copy(out, b.data[offset:])
	return nil
}

// WriteAt copies in into the backing store starting at offset.
func (b *BackingFile) WriteAt(in []byte, offset uint64) error {
	if offset+uint64(len(in)) > uint64(len(b.data)) {
		return fmt.Errorf("cxlstate: write [%d,%d) out of range for %d-byte backing file", offset, offset+uint64(len(in)), len(b.data))
	}
	copy(b.data[offset:], in)
	return nil
}

// Close unmaps and closes the backing file. Idempotent.
func (b *BackingFile) Close() error {
	if b == nil {
		return nil
	}
	var err error
	if b.data != nil {
		err = unix.Munmap(b.data)
		b.data = nil
	}
	if b.f != nil {
		if cerr := b.f.Close(); err == nil {
			err = cerr
		}
		b.f = nil
	}
	return err
}
