package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/geowidget/internal/widget"
)

func counties() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := 0; i < 10; i++ {
		x := float64(i)
		f := geojson.NewFeature(orb.Polygon{{{x, 0}, {x + 1, 0}, {x + 1, 1}, {x, 1}, {x, 0}}})
		f.Properties["pop"] = float64(i * 10)
		fc.Append(f)
	}
	return fc
}

func TestMapServiceCreate(t *testing.T) {
	s := NewMapService(t.TempDir(), nil, nil)

	state, err := s.Create(MapConfig{Name: "Population Density!", Center: []float64{10, 50}, Zoom: 5})
	require.NoError(t, err)
	assert.Equal(t, "population_density", state.ID)
	assert.Equal(t, []float64{10, 50}, state.Center)
	assert.Equal(t, 5.0, state.Zoom)

	_, err = s.Create(MapConfig{Name: "Population Density"})
	assert.ErrorIs(t, err, ErrDuplicateMap)

	anon, err := s.Create(MapConfig{Name: "!!!"})
	require.NoError(t, err)
	assert.Len(t, anon.ID, 36)

	assert.Len(t, s.List(), 2)
}

func TestMapServiceUpdatePublishes(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	s := NewMapService(t.TempDir(), bus, nil)
	_, err := s.Create(MapConfig{ID: "m", Name: "M"})
	require.NoError(t, err)
	created := <-ch
	assert.Equal(t, MapCreated, created.Action)

	_, calls, err := s.Update("m", func(m *widget.Map) error {
		_, err := m.AddChoropleth(widget.ChoroplethOptions{ID: "pop", Data: counties(), Column: "pop"})
		return err
	})
	require.NoError(t, err)
	require.Len(t, calls, 2)

	ev := <-ch
	assert.Equal(t, Event{Action: MapUpdated, MapID: "m", Calls: calls}, ev)

	_, _, err = s.Update("m", func(m *widget.Map) error {
		_, err := m.AddChoropleth(widget.ChoroplethOptions{ID: "pop", Data: counties(), Column: "pop"})
		return err
	})
	assert.ErrorIs(t, err, widget.ErrDuplicateLayer)

	_, _, err = s.Update("missing", func(*widget.Map) error { return nil })
	assert.ErrorIs(t, err, ErrMapNotFound)
}

func TestMapServicePersistence(t *testing.T) {
	dir := t.TempDir()
	s := NewMapService(dir, nil, nil)
	_, err := s.Create(MapConfig{ID: "m", Name: "M"})
	require.NoError(t, err)
	_, _, err = s.Update("m", func(m *widget.Map) error {
		_, err := m.AddChoropleth(widget.ChoroplethOptions{ID: "pop", Data: counties(), Column: "pop"})
		return err
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "maps.json"))

	reloaded := NewMapService(dir, nil, nil)
	state, ok := reloaded.Get("m")
	require.True(t, ok)
	require.Len(t, state.Layers, 1)
	assert.Equal(t, []float64{0, 20, 40, 60, 80, 90}, state.Layers[0].Choropleth.Breaks)

	calls, total, err := reloaded.CallsSince("m", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, calls, 1)
	assert.Equal(t, "addLayer", calls[0].Method)

	require.NoError(t, reloaded.Delete("m"))
	assert.ErrorIs(t, reloaded.Delete("m"), ErrMapNotFound)
	assert.Empty(t, NewMapService(dir, nil, nil).List())
}

func TestMapServiceCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maps.json"), []byte("{not json"), 0644))
	assert.Empty(t, NewMapService(dir, nil, nil).List())
}

func TestGenerateID(t *testing.T) {
	assert.Equal(t, "us_counties_2020", generateID("US Counties 2020"))
	assert.Equal(t, "lan_vital", generateID("Élan Vital"))
}

func TestMapServiceUpdateRollsBack(t *testing.T) {
	bus := NewEventBus()
	s := NewMapService(t.TempDir(), bus, nil)
	_, err := s.Create(MapConfig{ID: "m"})
	require.NoError(t, err)
	before, _, err := s.Update("m", func(m *widget.Map) error {
		_, err := m.AddChoropleth(widget.ChoroplethOptions{ID: "pop", Data: counties(), Column: "pop"})
		return err
	})
	require.NoError(t, err)

	ch := bus.Subscribe("m")
	defer bus.Unsubscribe(ch)

	_, _, err = s.Update("m", func(m *widget.Map) error {
		if err := m.SetOpacity("pop", 0.2); err != nil {
			return err
		}
		if err := m.RemoveLayer("pop"); err != nil {
			return err
		}
		_, err := m.AddChoropleth(widget.ChoroplethOptions{ID: "pop", Data: counties(), Column: "missing"})
		return err
	})
	require.Error(t, err)

	after, ok := s.Get("m")
	require.True(t, ok)
	assert.Equal(t, before, after)
	require.Len(t, after.Layers, 1)
	assert.Equal(t, 0.8, after.Layers[0].Opacity)
	assert.Empty(t, ch, "a rejected update publishes nothing")

	calls, total, err := s.CallsSince("m", 0)
	require.NoError(t, err)
	assert.Equal(t, len(before.Calls), total)
	assert.Equal(t, before.Calls, calls)
}
