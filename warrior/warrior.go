package warrior

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/inputmap"
)

const (
	BodyWidth      = 50.0
	BodyHeight     = 100.0
	WalkSpeed      = 300.0
	JumpVelocity   = 400.0
	Gravity        = 980.0
	AttackDuration = 500 * time.Millisecond

	groundTolerance = 2.0
)

// Input is the per-tick intent of the player. MoveY is positive for up.
type Input struct {
	MoveX  float64
	MoveY  float64
	Attack bool
}

// InputFrom reads the player context actions.
func InputFrom(v inputmap.Values) Input {
	x, y := v.Axis2D(inputmap.MoveAction)
	return Input{
		MoveX:  clampAxis(x),
		MoveY:  clampAxis(y),
		Attack: v.Bool(inputmap.AttackAction),
	}
}

// Warrior is a side-scrolling character standing on a flat ground line.
// Screen coordinates are used: Y grows downwards.
type Warrior struct {
	space   *cp.Space
	body    *cp.Body
	groundY float64

	state      State
	input      Input
	facingLeft bool
	attackLeft float64
	lastAttack anim.Kind
	kind       anim.Kind

	sequences map[anim.Kind]*anim.Sequence
	player    *anim.Player
}

// New places a warrior at x with its feet on groundY. seqs supplies the
// flipbooks by Kind; missing kinds simply have no animation.
func New(seqs []anim.Sequence, x, groundY float64) *Warrior {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: Gravity})

	ground := cp.NewSegment(space.StaticBody, cp.Vector{X: -1e6, Y: groundY}, cp.Vector{X: 1e6, Y: groundY}, 0)
	ground.SetFriction(1)
	space.AddShape(ground)

	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: x, Y: groundY - BodyHeight/2})
	// Horizontal speed is driven directly, so the body itself has no friction.
	shape := cp.NewBox(body, BodyWidth, BodyHeight, 0)
	shape.SetFriction(0)
	space.AddBody(body)
	space.AddShape(shape)

	w := &Warrior{
		space:      space,
		body:       body,
		groundY:    groundY,
		lastAttack: anim.Unknown,
		kind:       anim.Unknown,
		sequences:  anim.ByKind(seqs),
		player:     anim.NewPlayer(nil, true),
	}
	w.changeState(stateIdle)
	return w
}

// Update applies input, advances the state machine and steps physics by dt
// seconds, then advances the animation by one tick.
func (w *Warrior) Update(in Input, dt float64) {
	w.input = in
	if in.MoveX > 0 {
		w.facingLeft = false
	} else if in.MoveX < 0 {
		w.facingLeft = true
	}

	w.state.HandleInput(w, in)

	if in.MoveY > 0 && w.Grounded() {
		vx, _ := w.Velocity()
		w.body.SetVelocity(vx, -JumpVelocity)
	}

	w.state.Update(w, dt)
	w.space.Step(dt)
	w.player.Update()
}

func (w *Warrior) changeState(s State) {
	w.state = s
	s.Enter(w)
}

func (w *Warrior) setAnimation(k anim.Kind) {
	w.kind = k
	w.player.Play(w.sequences[k])
}

// Grounded reports whether the feet rest on the ground line.
func (w *Warrior) Grounded() bool {
	feet := w.body.Position().Y + BodyHeight/2
	_, vy := w.Velocity()
	return math.Abs(feet-w.groundY) <= groundTolerance && vy >= -1
}

func (w *Warrior) Position() (float64, float64) {
	p := w.body.Position()
	return p.X, p.Y
}

func (w *Warrior) Velocity() (float64, float64) {
	v := w.body.Velocity()
	return v.X, v.Y
}

func (w *Warrior) State() string { return w.state.Name() }

func (w *Warrior) Attacking() bool { return w.state == stateAttack }

func (w *Warrior) FacingLeft() bool { return w.facingLeft }

// Kind is the animation kind currently selected.
func (w *Warrior) Kind() anim.Kind { return w.kind }

// Animation returns the sequence being played, or nil when the sheet has
// no row for the current kind.
func (w *Warrior) Animation() *anim.Sequence {
	return w.sequences[w.kind]
}

func (w *Warrior) Player() *anim.Player { return w.player }

func clampAxis(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
