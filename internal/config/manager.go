package config

import (
	"bytes"
	"context"
	"errors"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	yaml "go.yaml.in/yaml/v3"
)

// Manager loads the config file and publishes reloads to subscribers.
type Manager struct {
	path string
	log  zerolog.Logger

	mu  sync.RWMutex
	cfg *Config

	subsMu sync.Mutex
	subs   []chan *Config

	// lastHash tracks the last committed file content so editor-driven
	// duplicate write events do not cause redundant publishes.
	lastHash uint64
}

func NewManager(path string, log zerolog.Logger) *Manager {
	return &Manager{path: path, log: log.With().Str("component", "config").Logger()}
}

// Parse reads and strictly decodes the file (unknown keys are rejected),
// applies defaults, and validates.
func (m *Manager) Parse() (*Config, error) {
	b, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}
	return parse(b)
}

func parse(b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (m *Manager) Load() (*Config, error) {
	cfg, err := m.Parse()
	if err != nil {
		return nil, err
	}
	m.commit(cfg)
	return cfg, nil
}

func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *Manager) commit(cfg *Config) {
	m.mu.Lock()
	m.cfg = cfg
	m.lastHash = hashFile(m.path)
	m.mu.Unlock()
}

func hashFile(path string) uint64 {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

// Subscribe returns a channel receiving each committed reload. Slow
// subscribers only ever miss intermediate states, never the latest one.
func (m *Manager) Subscribe(buffer int) chan *Config {
	ch := make(chan *Config, buffer)
	m.subsMu.Lock()
	m.subs = append(m.subs, ch)
	m.subsMu.Unlock()
	return ch
}

func (m *Manager) publish(cfg *Config) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- cfg:
		default:
			// drop the oldest queued item, then push the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- cfg:
			default:
			}
		}
	}
}

// Watch reloads the file on fsnotify change events until ctx is done.
// A parse failure keeps the previous config and logs the error.
func (m *Manager) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: editors replace files by rename
	// and a file watch would silently go stale.
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		return err
	}
	file := filepath.Base(m.path)

	// small debounce so partial writes settle before reloading
	const settle = 200 * time.Millisecond
	var pending *time.Timer
	reloads := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("config: watcher closed")
			}
			if filepath.Base(ev.Name) != file {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(settle, func() {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("config: watcher closed")
			}
			m.log.Warn().Err(err).Msg("config watcher error")
		case <-reloads:
			m.reload()
		}
	}
}

func (m *Manager) reload() {
	if h := hashFile(m.path); h != 0 && h == m.currentHash() {
		return
	}
	cfg, err := m.Parse()
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.path).Msg("config reload failed; keeping previous config")
		return
	}
	m.commit(cfg)
	m.publish(cfg)
	m.log.Info().Str("path", m.path).Msg("config reloaded")
}

func (m *Manager) currentHash() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHash
}
