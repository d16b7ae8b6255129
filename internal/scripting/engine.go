package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for tuning hooks.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// shared helpers first, then behavior hooks
	for _, sub := range []string{"core", "ai"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasFunction reports whether a global Lua function is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// FearContext holds pre-packed data for a fear update.
type FearContext struct {
	Entity         uint64
	Fear           float32
	HasTarget      bool
	TargetDistance float32
	HomeDistance   float32
	Height         float32
	Delta          float32 // seconds
}

// EvalFear calls the Lua scorpion_fear function. The current fear is kept
// when the function is missing or fails.
func (e *Engine) EvalFear(ctx FearContext) float32 {
	fn := e.vm.GetGlobal("scorpion_fear")
	if fn == lua.LNil {
		return ctx.Fear
	}

	t := e.vm.NewTable()
	t.RawSetString("entity", lua.LNumber(ctx.Entity))
	t.RawSetString("fear", lua.LNumber(ctx.Fear))
	t.RawSetString("has_target", lua.LBool(ctx.HasTarget))
	t.RawSetString("target_distance", lua.LNumber(ctx.TargetDistance))
	t.RawSetString("home_distance", lua.LNumber(ctx.HomeDistance))
	t.RawSetString("height", lua.LNumber(ctx.Height))
	t.RawSetString("delta", lua.LNumber(ctx.Delta))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua scorpion_fear error", zap.Error(err), zap.Uint64("entity", ctx.Entity))
		return ctx.Fear
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Warn("lua scorpion_fear returned a non-number", zap.String("type", result.Type().String()))
		return ctx.Fear
	}
	return float32(n)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
