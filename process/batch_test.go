package process

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/milk9111/sheetsmith/catalog"
	"github.com/milk9111/sheetsmith/recipes"
	"github.com/stretchr/testify/require"
)

func TestBatchProcessesAllAndCollectsFailures(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeSheet(t, src, "Warrior_Blue.png", 48, 64)
	writeSheet(t, src, "Warrior_Red.png", 48, 64)
	require.NoError(t, os.WriteFile(filepath.Join(src, "Broken.png"), []byte("nope"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "readme.txt"), []byte("skip"), 0o644))

	summary, err := (&Processor{}).Batch(context.Background(), BatchOptions{
		SourceDir: src,
		DestDir:   dest,
		Grid:      warriorGrid,
		Workers:   2,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Broken.png", "Warrior_Blue.png", "Warrior_Red.png"}, summary.Discovered)
	require.Len(t, summary.Results, 2)
	require.Len(t, summary.Failures, 1)
	require.Equal(t, "Broken.png", summary.Failures[0].Texture)
	require.ErrorContains(t, summary.Err(), "1 of 3 sheets failed")

	m, err := catalog.Load(catalog.ManifestPath(dest, "Warrior_Red"))
	require.NoError(t, err)
	fb, ok := m.Flipbook("Idle_Warrior_Red")
	require.True(t, ok, "batch suffixes flipbooks with the texture name")
	require.Len(t, fb.Frames, 6)
}

func TestBatchDryRun(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeSheet(t, src, "Warrior_Blue.png", 12, 16)

	summary, err := (&Processor{}).Batch(context.Background(), BatchOptions{
		SourceDir: src,
		DestDir:   dest,
		Grid:      warriorGrid,
		DryRun:    true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Warrior_Blue.png"}, summary.Discovered)
	require.Empty(t, summary.Results)
	require.NoError(t, summary.Err())

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestBatchCharactersAndRecipes(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeSheet(t, src, "Warrior_Purple.png", 12, 16)
	writeSheet(t, src, "Knight.png", 8, 8)

	knight, err := recipes.ParseRecipe([]byte("texture: Knight\ncolumns: 2\nrows: 2\nsuffix: K\n"))
	require.NoError(t, err)

	summary, err := (&Processor{}).Batch(context.Background(), BatchOptions{
		SourceDir:  src,
		DestDir:    dest,
		Grid:       warriorGrid,
		Recipes:    map[string]*recipes.Recipe{"knight": knight},
		Characters: true,
	})
	require.NoError(t, err)
	require.NoError(t, summary.Err())
	require.Len(t, summary.Results, 2)

	require.ElementsMatch(t, []string{
		filepath.Join(dest, DefaultCharacterPackage, "knight.go"),
		filepath.Join(dest, DefaultCharacterPackage, "warrior_purple.go"),
	}, summary.Characters)

	src2, err := os.ReadFile(filepath.Join(dest, DefaultCharacterPackage, "warrior_purple.go"))
	require.NoError(t, err)
	require.Contains(t, string(src2), "func NewWarriorPurple()")

	m, err := catalog.Load(catalog.ManifestPath(dest, "Knight"))
	require.NoError(t, err)
	require.Len(t, m.Flipbooks, 2)
	require.Equal(t, "Idle_K", m.Flipbooks[0].Name)
}

var boundFlipbook = regexp.MustCompile(`anim\.(\w+):\s+"([^"]+)"`)

func TestCharacterBindingsMatchCatalog(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeSheet(t, src, "Knight.png", 8, 8)
	writeSheet(t, src, "Mage.png", 12, 16)

	knight, err := recipes.ParseRecipe([]byte("texture: Knight\ncolumns: 2\nrows: 2\nsuffix: K\nnaming_script: snake_case\n"))
	require.NoError(t, err)

	summary, err := (&Processor{}).Batch(context.Background(), BatchOptions{
		SourceDir:  src,
		DestDir:    dest,
		Grid:       warriorGrid,
		Recipes:    map[string]*recipes.Recipe{"knight": knight},
		Characters: true,
	})
	require.NoError(t, err)
	require.NoError(t, summary.Err())

	tests := []struct {
		texture string
		file    string
		want    int
	}{
		{texture: "Knight", file: "knight.go", want: 2},
		{texture: "Mage", file: "mage.go", want: 8},
	}
	for _, tc := range tests {
		m, err := catalog.Load(catalog.ManifestPath(dest, tc.texture))
		require.NoError(t, err)
		code, err := os.ReadFile(filepath.Join(dest, DefaultCharacterPackage, tc.file))
		require.NoError(t, err)

		matches := boundFlipbook.FindAllStringSubmatch(string(code), -1)
		require.Len(t, matches, tc.want, tc.texture)
		for _, mt := range matches {
			fb, ok := m.Flipbook(mt[2])
			require.True(t, ok, "%s binds %s which is not in the catalog", tc.texture, mt[2])
			require.Equal(t, mt[1], fb.Kind.String())
		}
	}
}

func TestBatchRecipeRequestsCharacter(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeSheet(t, src, "Knight.png", 8, 8)
	writeSheet(t, src, "Mage.png", 12, 16)

	knight, err := recipes.ParseRecipe([]byte("texture: Knight\ncolumns: 2\nrows: 2\ncharacter: true\n"))
	require.NoError(t, err)

	summary, err := (&Processor{}).Batch(context.Background(), BatchOptions{
		SourceDir: src,
		DestDir:   dest,
		Grid:      warriorGrid,
		Recipes:   map[string]*recipes.Recipe{"knight": knight},
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dest, DefaultCharacterPackage, "knight.go")}, summary.Characters)
	require.NoFileExists(t, filepath.Join(dest, DefaultCharacterPackage, "mage.go"))
}

func TestBatchMissingSourceDir(t *testing.T) {
	_, err := (&Processor{}).Batch(context.Background(), BatchOptions{SourceDir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestBatchCancelled(t *testing.T) {
	src := t.TempDir()
	writeSheet(t, src, "a.png", 12, 16)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Processor{}).Batch(ctx, BatchOptions{SourceDir: src, DestDir: t.TempDir(), Grid: warriorGrid})
	require.ErrorIs(t, err, context.Canceled)
}
