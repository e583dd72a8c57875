package warrior

import (
	"testing"

	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/inputmap"
	"github.com/milk9111/sheetsmith/sheet"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60.0

func newTestWarrior(t *testing.T) *Warrior {
	t.Helper()
	grid := sheet.GridSpec{Columns: 6, Rows: 8}
	cells := make([]sheet.SpriteCell, grid.Cells())
	seqs, err := anim.Assemble(cells, grid, anim.Options{Suffix: "Warrior_Blue"})
	require.NoError(t, err)
	return New(seqs, 100, 500)
}

func run(w *Warrior, in Input, ticks int) {
	for i := 0; i < ticks; i++ {
		w.Update(in, dt)
	}
}

func TestStartsIdleOnGround(t *testing.T) {
	w := newTestWarrior(t)
	run(w, Input{}, 30)

	require.Equal(t, "idle", w.State())
	require.True(t, w.Grounded())
	require.Equal(t, anim.Idle, w.Kind())
	require.Equal(t, "Idle_Warrior_Blue", w.Animation().Name)
	require.Same(t, w.Animation(), w.Player().Sequence())
}

func TestMoveAndFacing(t *testing.T) {
	w := newTestWarrior(t)
	x0, _ := w.Position()

	run(w, Input{MoveX: 1}, 30)
	require.Equal(t, "move", w.State())
	require.Equal(t, anim.Move, w.Kind())
	require.False(t, w.FacingLeft())
	vx, _ := w.Velocity()
	require.InDelta(t, WalkSpeed, vx, 1e-6)
	x1, _ := w.Position()
	require.InDelta(t, x0+WalkSpeed*0.5, x1, 10)

	run(w, Input{MoveX: -1}, 1)
	require.True(t, w.FacingLeft())

	run(w, Input{}, 1)
	require.Equal(t, "idle", w.State())
	require.True(t, w.FacingLeft(), "facing is kept without horizontal input")
}

func TestAttackDirections(t *testing.T) {
	tests := []struct {
		name  string
		moveY float64
		want  anim.Kind
	}{
		{name: "sideways", moveY: 0, want: anim.AttackSideways},
		{name: "upwards", moveY: 1, want: anim.AttackUpwards},
		{name: "downwards", moveY: -1, want: anim.AttackDownwards},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWarrior(t)
			run(w, Input{MoveY: tc.moveY, Attack: true}, 1)
			require.True(t, w.Attacking())
			require.Equal(t, tc.want, w.Kind())
		})
	}
}

func TestAttackLastsHalfSecondAndAlternates(t *testing.T) {
	w := newTestWarrior(t)

	run(w, Input{Attack: true}, 1)
	require.Equal(t, anim.AttackSideways, w.Kind())

	run(w, Input{}, 28)
	require.True(t, w.Attacking(), "attack still running before 0.5s")

	run(w, Input{}, 3)
	require.False(t, w.Attacking())
	require.Equal(t, "idle", w.State())

	run(w, Input{Attack: true}, 1)
	require.Equal(t, anim.AttackSideways2, w.Kind())
	run(w, Input{}, 32)

	run(w, Input{Attack: true}, 1)
	require.Equal(t, anim.AttackSideways, w.Kind())
	run(w, Input{MoveX: 1}, 32)
	require.Equal(t, "move", w.State(), "attack ends into move while walking")
}

func TestJumpOnlyFromGround(t *testing.T) {
	w := newTestWarrior(t)
	run(w, Input{}, 10)
	_, y0 := w.Position()

	run(w, Input{MoveY: 1}, 1)
	_, vy := w.Velocity()
	require.Less(t, vy, 0.0)
	require.False(t, w.Grounded())

	run(w, Input{MoveY: 1}, 10)
	_, y1 := w.Position()
	require.Less(t, y1, y0)

	run(w, Input{}, 120)
	require.True(t, w.Grounded())
	_, y2 := w.Position()
	require.InDelta(t, y0, y2, groundTolerance)
}

func TestInputFromValues(t *testing.T) {
	ctx := inputmap.Default()
	in := InputFrom(ctx.Evaluate(func(k string) bool { return k == "A" || k == "W" || k == "LeftMouseButton" }))
	require.Equal(t, Input{MoveX: -1, MoveY: 1, Attack: true}, in)
}

func TestAnimationAdvances(t *testing.T) {
	w := newTestWarrior(t)
	require.Equal(t, 0, w.Player().Frame())
	run(w, Input{}, 5)
	require.Equal(t, 1, w.Player().Frame())
}
