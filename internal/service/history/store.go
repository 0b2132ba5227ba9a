package history

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/liangzhu/ds-tutor/backend/internal/model/chat"
)

// Store persists the transcript between runs.
type Store interface {
	Load() []chat.Turn
	Save(turns []chat.Turn) error
}

// FileStore keeps the whole transcript in a single JSON document. Every
// mutation rewrites the file in full; that holds up only while the
// transcript is small and there is a single writer, which is the operating
// assumption of the tutor.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns whatever was last saved, in order. A missing, unreadable or
// malformed file yields an empty transcript; Load never fails.
func (s *FileStore) Load() []chat.Turn {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[history] read %s failed: %v", s.path, err)
		}
		return []chat.Turn{}
	}

	var turns []chat.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		log.Printf("[history] malformed transcript in %s: %v", s.path, err)
		return []chat.Turn{}
	}
	return turns
}

// Save serializes the full transcript and overwrites the backing file.
// Write failures propagate; there is no retry.
func (s *FileStore) Save(turns []chat.Turn) error {
	if turns == nil {
		turns = []chat.Turn{}
	}

	data, err := json.MarshalIndent(turns, "", "    ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Export flattens a transcript to plain text, one "<speaker>: <text>" line
// per turn, for the download endpoint.
func Export(turns []chat.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(t.Username)
		b.WriteString(": ")
		b.WriteString(t.Message)
		b.WriteByte('\n')
	}
	return b.String()
}
