package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joeblew999/geowidget/internal/widget"
)

// MapService stores map widgets and persists their state.
type MapService struct {
	dataDir string
	maps    map[string]*widget.Map
	opts    []widget.Option
	bus     *EventBus
	log     *zap.Logger
	mu      sync.RWMutex
}

// NewMapService creates a map service backed by <dataDir>/maps.json.
// opts are applied to every map it creates or restores.
func NewMapService(dataDir string, bus *EventBus, log *zap.Logger, opts ...widget.Option) *MapService {
	if bus == nil {
		bus = NewEventBus()
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &MapService{
		dataDir: dataDir,
		maps:    make(map[string]*widget.Map),
		opts:    opts,
		bus:     bus,
		log:     log.Named("maps"),
	}
	s.loadFromDisk()
	return s
}

// Bus returns the event bus mutations are published on.
func (s *MapService) Bus() *EventBus { return s.bus }

// List returns a summary of every map, ordered by ID.
func (s *MapService) List() []MapSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MapSummary, 0, len(s.maps))
	for _, m := range s.maps {
		out = append(out, MapSummary{
			ID:     m.ID(),
			Name:   m.Name(),
			Layers: len(m.Layers()),
			Calls:  m.CallCount(),
		})
	}
	slices.SortFunc(out, func(a, b MapSummary) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Get returns a map snapshot by ID.
func (s *MapService) Get(id string) (widget.MapState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.maps[id]
	if !ok {
		return widget.MapState{}, false
	}
	return m.State(), true
}

// Create adds a new map.
func (s *MapService) Create(cfg MapConfig) (widget.MapState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := cfg.ID
	if id == "" {
		id = generateID(cfg.Name)
	}
	if _, exists := s.maps[id]; exists {
		return widget.MapState{}, fmt.Errorf("%w: %q", ErrDuplicateMap, id)
	}

	opts := slices.Clone(s.opts)
	opts = append(opts, widget.WithName(cfg.Name), widget.WithStyle(cfg.Style))
	if len(cfg.Center) == 2 || cfg.Zoom > 0 {
		lng, lat := 0.0, 0.0
		if len(cfg.Center) == 2 {
			lng, lat = cfg.Center[0], cfg.Center[1]
		}
		zoom := cfg.Zoom
		if zoom == 0 {
			zoom = 2
		}
		opts = append(opts, widget.WithView(lng, lat, zoom))
	}
	m := widget.New(id, opts...)

	s.maps[id] = m
	if err := s.saveToDisk(); err != nil {
		delete(s.maps, id)
		return widget.MapState{}, err
	}

	s.log.Info("map created", zap.String("id", id), zap.String("name", cfg.Name))
	s.bus.Publish(Event{Action: MapCreated, MapID: id})
	return m.State(), nil
}

// Update applies fn to a map under the service lock, persists the result
// and publishes the calls fn queued. When fn or the save fails the map is
// rolled back to its state before fn, queued calls included.
func (s *MapService) Update(id string, fn func(*widget.Map) error) (widget.MapState, []widget.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.maps[id]
	if !ok {
		return widget.MapState{}, nil, fmt.Errorf("%w: %q", ErrMapNotFound, id)
	}

	snapshot := m.State()
	before := m.CallCount()
	if err := fn(m); err != nil {
		s.maps[id] = widget.Restore(snapshot, s.opts...)
		s.log.Debug("map update rejected", zap.String("id", id), zap.Error(err))
		return widget.MapState{}, nil, err
	}
	if err := s.saveToDisk(); err != nil {
		s.maps[id] = widget.Restore(snapshot, s.opts...)
		s.log.Warn("saving maps", zap.String("id", id), zap.Error(err))
		return widget.MapState{}, nil, err
	}

	calls := m.CallsSince(before)
	s.log.Info("map updated", zap.String("id", id), zap.Int("calls", len(calls)))
	s.bus.Publish(Event{Action: MapUpdated, MapID: id, Calls: calls})
	return m.State(), calls, nil
}

// CallsSince returns the calls of a map after the first n, and the total.
func (s *MapService) CallsSince(id string, n int) ([]widget.Call, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.maps[id]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrMapNotFound, id)
	}
	return m.CallsSince(n), m.CallCount(), nil
}

// Delete removes a map by ID.
func (s *MapService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.maps[id]; !exists {
		return fmt.Errorf("%w: %q", ErrMapNotFound, id)
	}

	delete(s.maps, id)
	if err := s.saveToDisk(); err != nil {
		return err
	}
	s.log.Info("map deleted", zap.String("id", id))
	s.bus.Publish(Event{Action: MapDeleted, MapID: id})
	return nil
}

// configFile returns the path to the maps state file.
func (s *MapService) configFile() string {
	return filepath.Join(s.dataDir, "maps.json")
}

// loadFromDisk restores maps from disk.
func (s *MapService) loadFromDisk() {
	data, err := os.ReadFile(s.configFile())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("reading maps", zap.Error(err))
		}
		return
	}

	var states map[string]widget.MapState
	if err := json.Unmarshal(data, &states); err != nil {
		s.log.Warn("invalid maps file, starting empty", zap.String("path", s.configFile()), zap.Error(err))
		return
	}

	for id, state := range states {
		state.ID = id
		s.maps[id] = widget.Restore(state, s.opts...)
	}
	s.log.Debug("maps loaded", zap.Int("count", len(s.maps)))
}

// saveToDisk persists map state to disk.
func (s *MapService) saveToDisk() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	states := make(map[string]widget.MapState, len(s.maps))
	for id, m := range s.maps {
		states[id] = m.State()
	}
	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.configFile(), data, 0644)
}

// generateID creates a URL-safe ID from a name, or a random one when the
// name has no usable characters.
func generateID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	var result strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}
	if result.Len() == 0 {
		return uuid.NewString()
	}
	return result.String()
}
