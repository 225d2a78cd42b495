package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/qepting91/collage-tracker/internal/domain"
)

// SnapshotStore keeps the last seen generation of collages as NDJSON, one
// collage per line with sorted keys.
//
// Save truncates and rewrites the file in place. A crash mid-write can leave
// a short file; runs must not overlap.
type SnapshotStore struct {
	FilePath string
}

// Load reads the stored generation. A missing file is a first run and yields
// no collages. Any line that does not decode is a MalformedSnapshotError.
func (s *SnapshotStore) Load() ([]*domain.Collage, error) {
	f, err := os.Open(s.FilePath)
	if errors.Is(err, fs.ErrNotExist) {
		return []*domain.Collage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	collages := []*domain.Collage{}
	r := bufio.NewReader(f)
	for line := 1; ; line++ {
		raw, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(raw)) > 0 {
			c, perr := decodeLine(raw)
			if perr != nil {
				return nil, &domain.MalformedSnapshotError{Path: s.FilePath, Line: line, Err: perr}
			}
			collages = append(collages, c)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
	}
	return collages, nil
}

func decodeLine(raw []byte) (*domain.Collage, error) {
	var c domain.Collage
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.ID == "" {
		return nil, errors.New("record has no id")
	}
	return &c, nil
}

// Save replaces the snapshot with collages and syncs it to disk.
func (s *SnapshotStore) Save(collages []*domain.Collage) error {
	f, err := os.Create(s.FilePath)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, c := range collages {
		line, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode collage %s: %w", c.ID, err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync snapshot: %w", err)
	}
	return f.Close()
}
