package history

// Player steps through a fixed list of recorded steps. Position -1 is before
// the first step.
type Player struct {
	steps []Step
	pos   int
}

// NewPlayer starts before the first step.
func NewPlayer(steps []Step) *Player {
	return &Player{steps: steps, pos: -1}
}

// Len returns the number of steps.
func (p *Player) Len() int { return len(p.steps) }

// Pos returns the current position, -1 before the first step.
func (p *Player) Pos() int { return p.pos }

// Done reports whether the last step has been shown.
func (p *Player) Done() bool { return p.pos >= len(p.steps)-1 }

// Current returns the step at the current position.
func (p *Player) Current() (Step, bool) {
	if p.pos < 0 || p.pos >= len(p.steps) {
		return Step{}, false
	}
	return p.steps[p.pos], true
}

// Next advances one step. At the end it stays put and returns false.
func (p *Player) Next() (Step, bool) {
	if p.Done() {
		return Step{}, false
	}
	p.pos++
	return p.steps[p.pos], true
}

// Prev moves back one step. It returns false at or before the first step.
func (p *Player) Prev() (Step, bool) {
	if p.pos <= 0 {
		return Step{}, false
	}
	p.pos--
	return p.steps[p.pos], true
}

// Seek jumps to step i, clamped to [-1, Len()-1].
func (p *Player) Seek(i int) {
	p.pos = min(max(i, -1), len(p.steps)-1)
}

// Rewind returns to before the first step.
func (p *Player) Rewind() { p.pos = -1 }
