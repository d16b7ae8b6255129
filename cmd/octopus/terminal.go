package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/octosim/octopus/internal/config"
	"github.com/octosim/octopus/internal/core/ecs"
	"github.com/octosim/octopus/internal/core/event"
)

const hissFlash = 500 * time.Millisecond

// Terminals report key presses but never releases, so a direction counts as
// held for key_hold after its last press or autorepeat.
var directions = map[rune]mgl32.Vec2{
	'w': {0, 1},
	's': {0, -1},
	'a': {-1, 0},
	'd': {1, 0},
}

var arrows = map[tcell.Key]rune{
	tcell.KeyUp:    'w',
	tcell.KeyDown:  's',
	tcell.KeyLeft:  'a',
	tcell.KeyRight: 'd',
}

type sprite struct {
	kind     event.ObjectKind
	pos      mgl32.Vec2
	height   float32
	hissedAt time.Time
}

type terminal struct {
	screen  tcell.Screen
	life    *event.Lifetime
	input   chan tcell.Event
	cells   int
	keyHold time.Duration

	objects map[ecs.EntityID]*sprite
	hero    ecs.EntityID
	held    map[rune]time.Time
	now     time.Time
	quit    bool
}

func newTerminal(events *event.Channel, cfg config.DisplayConfig) (*terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	t := newTerminalOn(screen, events, cfg)
	go t.pollInput()
	return t, nil
}

// newTerminalOn wires an initialized screen to the event channel without
// starting the input reader.
func newTerminalOn(screen tcell.Screen, events *event.Channel, cfg config.DisplayConfig) *terminal {
	t := &terminal{
		screen:  screen,
		life:    event.NewLifetime(),
		input:   make(chan tcell.Event, 64),
		cells:   max(cfg.CellsPerUnit, 1),
		keyHold: cfg.KeyHold,
		objects: make(map[ecs.EntityID]*sprite),
		held:    make(map[rune]time.Time),
	}
	screen.HideCursor()

	event.Subscribe(events, t.life, func(ev event.AddObject) {
		t.objects[ev.Entity] = &sprite{kind: ev.Kind, pos: ev.Position}
		if ev.Kind == event.KindHero {
			t.hero = ev.Entity
		}
	})
	event.Subscribe(events, t.life, func(ev event.MoveObject) {
		if sp, ok := t.objects[ev.Entity]; ok {
			sp.pos, sp.height = ev.Position, ev.Height
		}
	})
	event.Subscribe(events, t.life, func(ev event.Hiss) {
		if sp, ok := t.objects[ev.Entity]; ok {
			sp.hissedAt = t.now
		}
	})
	event.Subscribe(events, t.life, func(ev event.RemoveObject) {
		delete(t.objects, ev.Entity)
		if ev.Entity == t.hero {
			t.hero = 0
		}
	})
	return t
}

// pollInput forwards screen events until Fini makes PollEvent return nil.
func (t *terminal) pollInput() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			close(t.input)
			return
		}
		t.input <- ev
	}
}

func (t *terminal) Poll(now time.Time) (mgl32.Vec2, bool) {
	t.now = now
	for {
		select {
		case ev, ok := <-t.input:
			if !ok {
				return mgl32.Vec2{}, false
			}
			t.handle(ev, now)
		default:
			return t.control(now), !t.quit
		}
	}
}

func (t *terminal) handle(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			t.quit = true
		case tcell.KeyRune:
			r := ev.Rune()
			if r == 'q' {
				t.quit = true
			} else if _, ok := directions[r]; ok {
				t.held[r] = now
			}
		default:
			if r, ok := arrows[ev.Key()]; ok {
				t.held[r] = now
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

// control sums the directions pressed within key_hold of now.
func (t *terminal) control(now time.Time) mgl32.Vec2 {
	var v mgl32.Vec2
	for r, at := range t.held {
		if now.Sub(at) > t.keyHold {
			delete(t.held, r)
			continue
		}
		v = v.Add(directions[r])
	}
	return v
}

func (t *terminal) Draw(now time.Time) {
	t.screen.Clear()
	w, h := t.screen.Size()
	var camera mgl32.Vec2
	if sp, ok := t.objects[t.hero]; ok {
		camera = sp.pos
	}

	// props first so moving objects stay visible on top of them
	for _, pass := range []bool{false, true} {
		for _, sp := range t.objects {
			if isActor(sp.kind) != pass {
				continue
			}
			x, y := t.project(sp, camera, w, h)
			if x < 0 || y < 1 || x >= w || y >= h {
				continue
			}
			glyph, style := appearance(sp, now)
			t.screen.SetContent(x, y, glyph, nil, style)
		}
	}

	status := fmt.Sprintf(" octopus  objects:%d  wasd/arrows move  q quits ", len(t.objects))
	for i, r := range status {
		if i >= w {
			break
		}
		t.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}
	t.screen.Show()
}

// project maps world units to a cell: cells columns per unit, one row per
// unit, y up, height lifting the glyph by half a row per unit.
func (t *terminal) project(sp *sprite, camera mgl32.Vec2, w, h int) (int, int) {
	rel := sp.pos.Sub(camera)
	x := w/2 + int(math.Round(float64(rel.X()*float32(t.cells))))
	y := h/2 - int(math.Round(float64(rel.Y()+0.5*sp.height)))
	return x, y
}

func (t *terminal) Close() {
	t.life.End()
	t.screen.Fini()
}

func isActor(k event.ObjectKind) bool {
	return k == event.KindHero || k == event.KindScorpion
}

func appearance(sp *sprite, now time.Time) (rune, tcell.Style) {
	style := tcell.StyleDefault
	switch sp.kind {
	case event.KindHero:
		return '@', style.Foreground(tcell.ColorYellow).Bold(true)
	case event.KindScorpion:
		if !sp.hissedAt.IsZero() && now.Sub(sp.hissedAt) < hissFlash {
			return 'S', style.Foreground(tcell.ColorRed).Bold(true)
		}
		return 's', style.Foreground(tcell.ColorRed)
	case event.KindTree:
		return 'T', style.Foreground(tcell.ColorGreen)
	case event.KindChest:
		return '$', style.Foreground(tcell.ColorOlive)
	case event.KindHouse:
		return '#', style.Foreground(tcell.ColorSilver)
	}
	return '?', style
}
