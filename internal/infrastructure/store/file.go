package store

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

// FileStore is the durable scope: a single JSON file holding a string map.
// The whole map is rewritten on every mutation; values are small (token,
// cached user, guest cart), so this stays cheap.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
	log  *logger.Logger
}

// OpenFileStore loads the file at path, or starts empty when the file is
// missing or unreadable. It never fails: a corrupt file is logged, counted
// and discarded on the next write.
func OpenFileStore(path string, log *logger.Logger) *FileStore {
	s := &FileStore{
		path: path,
		data: make(map[string]json.RawMessage),
		log:  log,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.fail("open", err)
		}
		return s
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.fail("open", err)
		s.data = make(map[string]json.RawMessage)
	}
	return s
}

func (s *FileStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[key]
	if !ok {
		return nil, false
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		s.fail("get", err)
		return nil, false
	}
	return []byte(value), true
}

func (s *FileStore) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.Marshal(string(value))
	if err != nil {
		s.fail("set", err)
		return
	}
	s.data[key] = encoded
	s.persist()
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	s.persist()
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]json.RawMessage)
	s.persist()
}

func (s *FileStore) persist() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.fail("persist", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		s.fail("persist", err)
	}
}

func (s *FileStore) fail(op string, err error) {
	monitoring.StoreFailuresTotal.WithLabelValues("file", op).Inc()
	s.log.Warn("File store operation failed", "op", op, "path", s.path, "error", err.Error())
}
