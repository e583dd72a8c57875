package recipes

import (
	"testing"

	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/sheet"
	"github.com/stretchr/testify/require"
)

func TestSnakeCaseNamer(t *testing.T) {
	namer, err := LoadNamer("snake_case")
	require.NoError(t, err)

	tests := []struct {
		kind   anim.Kind
		row    int
		suffix string
		want   string
	}{
		{kind: anim.Idle, row: 0, suffix: "", want: "idle"},
		{kind: anim.AttackSideways2, row: 3, suffix: "Warrior_Blue", want: "attack_sideways2_warrior_blue"},
		{kind: anim.AttackUpwards, row: 6, suffix: "K", want: "attack_upwards_k"},
		{kind: anim.Move, row: 1, suffix: "DarkKnight", want: "move_dark_knight"},
		{kind: anim.Unknown, row: 8, suffix: "", want: "unknown_r8"},
	}

	for _, tc := range tests {
		got, err := namer(tc.kind, tc.row, tc.suffix)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestCompileNamerErrors(t *testing.T) {
	_, err := CompileNamer([]byte("x := 1"))
	require.Error(t, err, "missing name function must fail to compile")

	namer, err := CompileNamer([]byte(`name := func(kind, row, suffix) { return kind - row }`))
	require.NoError(t, err)
	_, err = namer(anim.Idle, 0, "")
	require.Error(t, err)
}

func TestNamerEmptyKeepsDefault(t *testing.T) {
	namer, err := CompileNamer([]byte(`name := func(kind, row, suffix) { return row == 0 ? "" : "custom" }`))
	require.NoError(t, err)

	cells := make([]sheet.SpriteCell, 2)
	seqs, err := anim.Assemble(cells, sheet.GridSpec{Columns: 1, Rows: 2}, anim.Options{Namer: namer})
	require.NoError(t, err)
	require.Equal(t, "Idle", seqs[0].Name)
	require.Equal(t, "custom", seqs[1].Name)
}
