package event

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/octosim/octopus/internal/core/ecs"
)

// ObjectKind tells presentation which visual to create for a new object.
type ObjectKind int

const (
	KindHero ObjectKind = iota
	KindScorpion
	KindTree
	KindChest
	KindHouse
)

var kindNames = [...]string{"hero", "scorpion", "tree", "chest", "house"}

func (k ObjectKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseObjectKind maps a scene file name (case-insensitive) to its kind.
func ParseObjectKind(s string) (ObjectKind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return ObjectKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown object kind %q", s)
}

// AddObject is published once per created entity.
type AddObject struct {
	Entity   ecs.EntityID
	Kind     ObjectKind
	Position mgl32.Vec2
}

// MoveObject is published every tick for every kinematic entity.
type MoveObject struct {
	Entity   ecs.EntityID
	Position mgl32.Vec2
	Height   float32
}

type Hiss struct {
	Entity ecs.EntityID
}

// RemoveObject is published when an entity leaves the world.
type RemoveObject struct {
	Entity ecs.EntityID
}
