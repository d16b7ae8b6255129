package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadShippedScene(t *testing.T) {
	s, err := LoadScene(filepath.Join("..", "..", "data", "yaml", "scene.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultScene(), s)
}

func TestDefaultsFillHeroAndScorpion(t *testing.T) {
	s := DefaultScene()
	require.NoError(t, s.Validate())
	require.Equal(t, 5, s.Count())

	hero := s.Objects[0]
	assert.Equal(t, float32(5), hero.MaxSpeed)
	assert.Equal(t, float32(0.3), hero.TimeToFullSpeed)

	scorpion := s.Objects[1]
	assert.Equal(t, float32(4), scorpion.MaxSpeed)
	assert.Equal(t, float32(9), scorpion.Gravity)
	require.NotNil(t, scorpion.Home)
	assert.Equal(t, mgl32.Vec2{-5, 3}, scorpion.Home.Vec())
}

func TestLoadSceneRejectsBadLayouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scene:
  objects:
    - kind: scorpion
      position: { x: 1, y: 1 }
    - kind: dragon
      position: { x: 2, y: 2 }
`), 0o644))

	_, err := LoadScene(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need a hero")
	assert.Contains(t, err.Error(), `"dragon"`)
}

func TestLoadSceneRejectsNegativeGravity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scene:
  objects:
    - kind: Hero
      position: { x: 0, y: 0 }
    - kind: scorpion
      position: { x: 4, y: 0 }
      gravity: -9
`), 0o644))

	_, err := LoadScene(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gravity must not be negative")
	assert.NotContains(t, err.Error(), "ramp times")
}

func TestLoadSceneMissingFile(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
