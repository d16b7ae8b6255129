package data

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/octosim/octopus/internal/core/event"
)

// Point is a world position as written in scene files.
type Point struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

func (p Point) Vec() mgl32.Vec2 { return mgl32.Vec2{p.X, p.Y} }

// ObjectSpec describes one object to create when the scene is populated.
// Fields that do not apply to a kind are ignored.
type ObjectSpec struct {
	Kind     string  `yaml:"kind"`
	Position Point   `yaml:"position"`
	Radius   float32 `yaml:"radius"`

	// hero and scorpion
	MaxSpeed float32 `yaml:"max_speed"`

	// hero
	TimeToFullSpeed float32 `yaml:"time_to_full_speed"`
	TimeToFullStop  float32 `yaml:"time_to_full_stop"`

	// scorpion
	Gravity float32 `yaml:"gravity"`
	Fear    float32 `yaml:"fear"`
	Home    *Point  `yaml:"home"` // defaults to Position
}

// Scene is the initial world layout.
type Scene struct {
	Objects []ObjectSpec `yaml:"objects"`
}

type sceneFile struct {
	Scene Scene `yaml:"scene"`
}

// LoadScene loads and validates a scene from a YAML file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var f sceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	s := &f.Scene
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// DefaultScene is the built-in layout: the hero at the origin, one scorpion
// guarding its home, and three props.
func DefaultScene() *Scene {
	s := &Scene{Objects: []ObjectSpec{
		{Kind: "hero", Position: Point{0, 0}},
		{Kind: "scorpion", Position: Point{-5, 3}},
		{Kind: "tree", Position: Point{3, 2}, Radius: 1},
		{Kind: "chest", Position: Point{4, -3}, Radius: 1},
		{Kind: "house", Position: Point{1, -5}},
	}}
	s.applyDefaults()
	return s
}

func (s *Scene) applyDefaults() {
	for i := range s.Objects {
		o := &s.Objects[i]
		kind, err := event.ParseObjectKind(o.Kind)
		if err != nil {
			continue // reported by Validate
		}
		switch kind {
		case event.KindHero:
			if o.MaxSpeed == 0 {
				o.MaxSpeed = 5
			}
			if o.TimeToFullSpeed == 0 {
				o.TimeToFullSpeed = 0.3
			}
			if o.TimeToFullStop == 0 {
				o.TimeToFullStop = 0.2
			}
		case event.KindScorpion:
			if o.MaxSpeed == 0 {
				o.MaxSpeed = 4
			}
			if o.Gravity == 0 {
				o.Gravity = 9
			}
			if o.Home == nil {
				home := o.Position
				o.Home = &home
			}
		}
	}
}

// Validate checks kinds and the hero/scorpion relationship.
func (s *Scene) Validate() error {
	var errs []error
	heroes, scorpions := 0, 0
	for i, o := range s.Objects {
		kind, err := event.ParseObjectKind(o.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
			continue
		}
		switch kind {
		case event.KindHero:
			heroes++
			if o.TimeToFullSpeed <= 0 || o.TimeToFullStop <= 0 {
				errs = append(errs, fmt.Errorf("object %d: hero ramp times must be positive", i))
			}
		case event.KindScorpion:
			scorpions++
			// a scorpion with negative gravity never lands from a jump
			if o.Gravity < 0 {
				errs = append(errs, fmt.Errorf("object %d: scorpion gravity must not be negative", i))
			}
		}
		if o.MaxSpeed < 0 || o.Radius < 0 {
			errs = append(errs, fmt.Errorf("object %d: negative speed or radius", i))
		}
	}
	if heroes > 1 {
		errs = append(errs, fmt.Errorf("scene has %d heroes, at most one allowed", heroes))
	}
	if scorpions > 0 && heroes == 0 {
		errs = append(errs, errors.New("scorpions need a hero to target"))
	}
	return errors.Join(errs...)
}

// Count returns the number of objects in the scene.
func (s *Scene) Count() int {
	return len(s.Objects)
}
