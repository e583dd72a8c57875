package anim

import (
	"math"

	"github.com/milk9111/sheetsmith/sheet"
)

// TicksPerSecond is the update rate Player.Update is expected to be called at.
const TicksPerSecond = 60

// Player steps through a Sequence at its FPS, one Update per game tick.
type Player struct {
	Loop bool

	seq           *Sequence
	current       int
	tick          int
	ticksPerFrame int
	// finished is set once a non-looping player has held its last frame.
	finished bool
}

// NewPlayer returns a player positioned on the first frame of seq.
func NewPlayer(seq *Sequence, loop bool) *Player {
	p := &Player{Loop: loop}
	p.Play(seq)
	return p
}

// Play switches to seq. Switching to the sequence already playing keeps the
// current frame so per-tick calls don't restart the animation.
func (p *Player) Play(seq *Sequence) {
	if p == nil || p.seq == seq {
		return
	}
	p.seq = seq
	p.ticksPerFrame = 1
	if seq != nil && seq.FPS > 0 {
		p.ticksPerFrame = int(math.Max(1, math.Round(TicksPerSecond/seq.FPS)))
	}
	p.Reset()
}

// Sequence returns the sequence being played.
func (p *Player) Sequence() *Sequence {
	if p == nil {
		return nil
	}
	return p.seq
}

// Update advances the animation by one tick.
func (p *Player) Update() {
	if p == nil || p.seq == nil || p.seq.Len() == 0 {
		return
	}
	p.tick++
	if p.tick < p.ticksPerFrame {
		return
	}
	p.tick = 0
	switch {
	case p.current < p.seq.Len()-1:
		p.current++
	case p.Loop:
		p.current = 0
		p.finished = false
	default:
		p.finished = true
	}
}

// Reset rewinds to the first frame.
func (p *Player) Reset() {
	if p == nil {
		return
	}
	p.current = 0
	p.tick = 0
	p.finished = false
}

// SetFrame jumps to frame i, clamped to the sequence.
func (p *Player) SetFrame(i int) {
	if p == nil || p.seq == nil || p.seq.Len() == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= p.seq.Len() {
		i = p.seq.Len() - 1
	}
	p.current = i
	p.tick = 0
	p.finished = false
}

// Frame returns the current frame index.
func (p *Player) Frame() int {
	if p == nil {
		return 0
	}
	return p.current
}

// Done reports whether a non-looping player has shown its last frame for a
// full frame duration.
func (p *Player) Done() bool {
	if p == nil || p.Loop {
		return false
	}
	return p.finished
}

// Cell returns the sprite for the current frame, or nil.
func (p *Player) Cell() *sheet.SpriteCell {
	if p == nil || p.seq == nil || p.seq.Len() == 0 {
		return nil
	}
	return p.seq.Frames[p.current]
}
