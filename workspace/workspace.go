// Package workspace loads map descriptions: window, start pose, alien
// dimensions, wall segments and goal discs.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"morphplan/alien"
	"morphplan/cspace"
	"morphplan/geometry"
	"morphplan/search"
)

var ErrInvalidConfig = errors.New("workspace: invalid config")

// Map is the YAML form of a workspace.
type Map struct {
	Name        string       `yaml:"name"`
	Window      []float64    `yaml:"window"`
	Start       []float64    `yaml:"start"`
	Shape       string       `yaml:"shape"`
	Shapes      []string     `yaml:"shapes"` // optional; must list the shapes in index order
	Lengths     []float64    `yaml:"lengths"`
	Widths      []float64    `yaml:"widths"`
	Obstacles   [][]float64  `yaml:"obstacles"`
	Goals       [][]float64  `yaml:"goals"`
	GeoJSON     string       `yaml:"geojson"`
	Granularity float64      `yaml:"granularity"`
	Costs       search.Costs `yaml:"costs"`
}

// Workspace is a validated, ready-to-build map.
type Workspace struct {
	Name        string
	Window      geometry.Window
	Walls       []geometry.Segment // obstacles followed by the four boundary walls
	Goals       []geometry.Goal
	Alien       *alien.Alien
	Granularity float64
	Costs       search.Costs
}

// Request returns the build request at the given granularity.
func (w *Workspace) Request(granularity float64) cspace.Request {
	return cspace.Request{
		Alien:       w.Alien,
		Goals:       w.Goals,
		Walls:       w.Walls,
		Window:      w.Window,
		Granularity: granularity,
	}
}

// LoadFile reads a YAML workspace file. A relative geojson reference
// resolves against the file's directory.
func LoadFile(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}
	ws, err := load(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if ws.Name == "" {
		ws.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ws, nil
}

// Load decodes and validates YAML workspace data.
func Load(data []byte) (*Workspace, error) {
	return load(data, "")
}

func load(data []byte, dir string) (*Workspace, error) {
	m := Map{Costs: search.DefaultCosts()}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	ws, err := m.workspace(dir)
	if err != nil {
		return nil, err
	}
	ws.Name = m.Name
	return ws, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func (m Map) workspace(dir string) (*Workspace, error) {
	if len(m.Window) != 2 {
		return nil, invalid("window needs [width, height], got %v", m.Window)
	}
	win := geometry.Window{Width: m.Window[0], Height: m.Window[1]}
	if err := win.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var fromGeo *Features
	if m.GeoJSON != "" {
		path := m.GeoJSON
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read geojson: %w", err)
		}
		fromGeo, err = LoadGeoJSON(data)
		if err != nil {
			return nil, err
		}
		if fromGeo.Start != nil {
			m.Start = []float64{fromGeo.Start[0], fromGeo.Start[1]}
		}
	}
	if len(m.Start) != 2 {
		return nil, invalid("start needs [x, y], got %v", m.Start)
	}
	if len(m.Shapes) > 0 {
		if len(m.Shapes) != alien.NumShapes {
			return nil, invalid("shapes needs %d entries, got %v", alien.NumShapes, m.Shapes)
		}
		for i, name := range m.Shapes {
			if s, err := alien.ParseShape(name); err != nil || int(s) != i {
				return nil, invalid("shapes must be %v, got %v", alien.Shapes(), m.Shapes)
			}
		}
	}
	shape := alien.Ball
	if m.Shape != "" {
		s, err := alien.ParseShape(m.Shape)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		shape = s
	}
	if len(m.Lengths) != alien.NumShapes || len(m.Widths) != alien.NumShapes {
		return nil, invalid("lengths and widths need %d entries", alien.NumShapes)
	}
	var lengths, widths [alien.NumShapes]float64
	copy(lengths[:], m.Lengths)
	copy(widths[:], m.Widths)
	a, err := alien.New(geometry.Pt(m.Start[0], m.Start[1]), lengths, widths, shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	walls := make([]geometry.Segment, 0, len(m.Obstacles)+4)
	for i, o := range m.Obstacles {
		if len(o) != 4 {
			return nil, invalid("obstacle %d needs [x1, y1, x2, y2], got %v", i, o)
		}
		walls = append(walls, geometry.Seg(o[0], o[1], o[2], o[3]))
	}
	goals := make([]geometry.Goal, 0, len(m.Goals))
	for i, g := range m.Goals {
		if len(g) != 3 {
			return nil, invalid("goal %d needs [x, y, r], got %v", i, g)
		}
		goals = append(goals, geometry.Goal{Center: geometry.Pt(g[0], g[1]), Radius: g[2]})
	}

	if fromGeo != nil {
		walls = append(walls, fromGeo.Walls...)
		goals = append(goals, fromGeo.Goals...)
	}

	walls = append(walls, win.Boundary()...)
	if err := geometry.ValidateWalls(walls); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := geometry.ValidateGoals(goals); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := m.Costs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if m.Granularity < 0 {
		return nil, invalid("granularity %g", m.Granularity)
	}

	return &Workspace{
		Window:      win,
		Walls:       walls,
		Goals:       goals,
		Alien:       a,
		Granularity: m.Granularity,
		Costs:       m.Costs,
	}, nil
}
