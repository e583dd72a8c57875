package warrior

import "github.com/milk9111/sheetsmith/anim"

// State is one node of the warrior's state machine.
type State interface {
	Name() string
	Enter(w *Warrior)
	HandleInput(w *Warrior, in Input)
	Update(w *Warrior, dt float64)
}

// State singletons (avoid allocations on transitions).
var (
	stateIdle   State = &idleState{}
	stateMove   State = &moveState{}
	stateAttack State = &attackState{}
)

type idleState struct{}

type moveState struct{}

type attackState struct{}

func (idleState) Name() string { return "idle" }
func (idleState) Enter(w *Warrior) {
	w.setAnimation(anim.Idle)
}
func (idleState) HandleInput(w *Warrior, in Input) {
	if in.Attack {
		w.changeState(stateAttack)
		return
	}
	if in.MoveX != 0 {
		w.changeState(stateMove)
	}
}
func (idleState) Update(w *Warrior, dt float64) {
	_, vy := w.Velocity()
	w.body.SetVelocity(0, vy)
}

func (moveState) Name() string { return "move" }
func (moveState) Enter(w *Warrior) {
	w.setAnimation(anim.Move)
}
func (moveState) HandleInput(w *Warrior, in Input) {
	if in.Attack {
		w.changeState(stateAttack)
		return
	}
	if in.MoveX == 0 {
		w.changeState(stateIdle)
	}
}
func (moveState) Update(w *Warrior, dt float64) {
	_, vy := w.Velocity()
	w.body.SetVelocity(w.input.MoveX*WalkSpeed, vy)
}

func (attackState) Name() string { return "attack" }
func (attackState) Enter(w *Warrior) {
	kind := attackKind(w.input.MoveY)
	if w.lastAttack == kind {
		kind = kind.Alternate()
	}
	w.lastAttack = kind
	w.attackLeft = AttackDuration.Seconds()
	w.setAnimation(kind)
}
func (attackState) HandleInput(w *Warrior, in Input) {}
func (attackState) Update(w *Warrior, dt float64) {
	_, vy := w.Velocity()
	w.body.SetVelocity(w.input.MoveX*WalkSpeed, vy)

	w.attackLeft -= dt
	if w.attackLeft > 0 {
		return
	}
	w.attackLeft = 0
	if w.input.MoveX != 0 {
		w.changeState(stateMove)
	} else {
		w.changeState(stateIdle)
	}
}

func attackKind(moveY float64) anim.Kind {
	switch {
	case moveY > 0:
		return anim.AttackUpwards
	case moveY < 0:
		return anim.AttackDownwards
	default:
		return anim.AttackSideways
	}
}
