package event

// Lifetime is a liveness flag shared between a subscriber and the channel.
// Ending it silently retires every subscription it owns.
type Lifetime struct {
	ended bool
}

func NewLifetime() *Lifetime { return &Lifetime{} }

func (l *Lifetime) End() {
	if l != nil {
		l.ended = true
	}
}

// Alive is true for a nil Lifetime, which stands for the process lifetime.
func (l *Lifetime) Alive() bool {
	return l == nil || !l.ended
}
