package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: apply driver input (hero control)
	PhasePreUpdate               // 1: hero kinematics, fear
	PhaseUpdate                  // 2: step AI task chains
	PhasePostUpdate              // 3: enemy kinematics + move events
	PhaseCleanup                 // 4: destroy queued entities
)

var phaseNames = [...]string{"input", "pre-update", "update", "post-update", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
