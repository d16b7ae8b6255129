package main

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/octosim/octopus/internal/core/event"
)

// headless logs what a renderer would have drawn.
type headless struct {
	log   *zap.Logger
	life  *event.Lifetime
	moves int
}

func newHeadless(events *event.Channel, log *zap.Logger) *headless {
	h := &headless{log: log, life: event.NewLifetime()}
	event.Subscribe(events, h.life, func(ev event.AddObject) {
		log.Info("object added",
			zap.Uint64("entity", uint64(ev.Entity)),
			zap.Stringer("kind", ev.Kind),
			zap.Float32s("position", ev.Position[:]))
	})
	event.Subscribe(events, h.life, func(event.MoveObject) { h.moves++ })
	event.Subscribe(events, h.life, func(ev event.Hiss) {
		log.Info("hiss", zap.Uint64("entity", uint64(ev.Entity)))
	})
	event.Subscribe(events, h.life, func(ev event.RemoveObject) {
		log.Info("object removed", zap.Uint64("entity", uint64(ev.Entity)))
	})
	return h
}

func (h *headless) Poll(time.Time) (mgl32.Vec2, bool) { return mgl32.Vec2{}, true }

func (h *headless) Draw(time.Time) {}

func (h *headless) Close() {
	h.life.End()
	h.log.Info("headless run finished", zap.Int("move_events", h.moves))
}
