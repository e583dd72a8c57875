package anim

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/sheetsmith/sheet"
	"github.com/stretchr/testify/require"
)

func sliceSheet(t *testing.T, w, h int, grid sheet.GridSpec) []sheet.SpriteCell {
	t.Helper()
	pix := make([]byte, w*h*sheet.StrideBGRA)
	for i := range pix {
		pix[i] = byte(i % 251)
	}
	src, err := sheet.NewSourceImage(w, h, sheet.StrideBGRA, pix)
	require.NoError(t, err)
	cells, err := sheet.Slice(src, grid, "Warrior_Blue")
	require.NoError(t, err)
	return cells
}

func TestAssembleWarriorSheet(t *testing.T) {
	grid := sheet.GridSpec{Columns: 6, Rows: 8}
	cells := sliceSheet(t, 768, 1024, grid)
	require.Len(t, cells, 48)

	seqs, err := Assemble(cells, grid, Options{})
	require.NoError(t, err)
	require.Len(t, seqs, 8)

	wantNames := []string{"Idle", "Move", "AttackSideways", "AttackSideways2", "AttackDownwards", "AttackDownwards2", "AttackUpwards", "AttackUpwards2"}
	for i, s := range seqs {
		require.Equal(t, wantNames[i], s.Name)
		require.Equal(t, Kind(i), s.Kind)
		require.Equal(t, i, s.Row)
		require.Equal(t, 12.0, s.FPS)
		require.Equal(t, 6, s.Len())
		for col, f := range s.Frames {
			require.Same(t, &cells[i*6+col], f)
			require.Equal(t, 128, f.Width)
		}
	}
	require.Equal(t, 500*time.Millisecond, seqs[0].Duration())
}

func TestAssembleSuffix(t *testing.T) {
	grid := sheet.GridSpec{Columns: 6, Rows: 8}
	seqs, err := Assemble(sliceSheet(t, 768, 1024, grid), grid, Options{Suffix: "Warrior_Blue"})
	require.NoError(t, err)
	require.Equal(t, "Idle_Warrior_Blue", seqs[0].Name)
	require.Equal(t, "AttackUpwards2_Warrior_Blue", seqs[7].Name)
}

func TestAssembleGroupsFlatIndices(t *testing.T) {
	cases := []sheet.GridSpec{
		{Columns: 1, Rows: 1},
		{Columns: 3, Rows: 2},
		{Columns: 5, Rows: 9},
	}
	for _, grid := range cases {
		cells := make([]sheet.SpriteCell, grid.Cells())
		for i := range cells {
			cells[i] = sheet.SpriteCell{Name: sheet.CellName("c", i/grid.Columns, i%grid.Columns)}
		}
		seqs, err := Assemble(cells, grid, Options{FPS: 24})
		require.NoError(t, err)
		require.Len(t, seqs, grid.Rows)

		for i, s := range seqs {
			var got, want []string
			for _, f := range s.Frames {
				got = append(got, f.Name)
			}
			for j := i * grid.Columns; j < (i+1)*grid.Columns; j++ {
				want = append(want, cells[j].Name)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("grid %v row %d (-want +got):\n%s", grid, i, diff)
			}
			require.Equal(t, 24.0, s.FPS)
		}
	}
}

func TestAssembleCellCountMismatch(t *testing.T) {
	grid := sheet.GridSpec{Columns: 6, Rows: 8}
	cells := make([]sheet.SpriteCell, 47)

	seqs, err := Assemble(cells, grid, Options{})
	require.Nil(t, seqs)
	require.ErrorIs(t, err, ErrCellCountMismatch)

	var mm *CellCountMismatchError
	require.True(t, errors.As(err, &mm))
	require.Equal(t, CellCountMismatchError{Expected: 48, Actual: 47}, *mm)
	require.EqualError(t, err, "anim: cell count mismatch: expected 48, got 47")
}

func TestAssembleInvalidGrid(t *testing.T) {
	_, err := Assemble(nil, sheet.GridSpec{Columns: 0, Rows: 8}, Options{})
	require.ErrorIs(t, err, sheet.ErrInvalidGrid)
}

func TestAssembleRowsPastTableAreUnknown(t *testing.T) {
	grid := sheet.GridSpec{Columns: 2, Rows: 10}
	seqs, err := Assemble(make([]sheet.SpriteCell, 20), grid, Options{Suffix: "X"})
	require.NoError(t, err)
	require.Len(t, seqs, 10)
	require.Equal(t, AttackUpwards2, seqs[7].Kind)
	require.Equal(t, Unknown, seqs[8].Kind)
	require.Equal(t, Unknown, seqs[9].Kind)
	require.Equal(t, "Unknown_X", seqs[9].Name)
}

func TestAssembleNamer(t *testing.T) {
	grid := sheet.GridSpec{Columns: 1, Rows: 3}
	namer := func(kind Kind, row int, suffix string) (string, error) {
		if row == 1 {
			return "", nil
		}
		return suffix + "-" + kind.String(), nil
	}
	seqs, err := Assemble(make([]sheet.SpriteCell, 3), grid, Options{Suffix: "hero", Namer: namer})
	require.NoError(t, err)
	require.Equal(t, "hero-Idle", seqs[0].Name)
	require.Equal(t, "Move_hero", seqs[1].Name, "empty namer result falls back to the default name")

	failing := func(Kind, int, string) (string, error) { return "", errors.New("boom") }
	_, err = Assemble(make([]sheet.SpriteCell, 3), grid, Options{Namer: failing})
	require.ErrorContains(t, err, "boom")
}

func TestByKind(t *testing.T) {
	grid := sheet.GridSpec{Columns: 1, Rows: 10}
	seqs, err := Assemble(make([]sheet.SpriteCell, 10), grid, Options{})
	require.NoError(t, err)

	m := ByKind(seqs)
	require.Len(t, m, 8)
	require.Same(t, &seqs[1], m[Move])
	_, ok := m[Unknown]
	require.False(t, ok)
}
