package catalog

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/sheet"
)

const (
	SpritesDir   = "Sprites"
	FlipbooksDir = "Flipbooks"
	ManifestExt  = ".manifest.json"
)

// Namespace seeds the asset ids. Ids depend only on catalog paths.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/milk9111/sheetsmith/catalog"))

// Sheet is everything produced from one sprite sheet.
type Sheet struct {
	Texture   string
	Source    string
	Width     int
	Height    int
	Grid      sheet.GridSpec
	Cells     []sheet.SpriteCell
	Sequences []anim.Sequence
}

type Manifest struct {
	ID         uuid.UUID       `json:"id"`
	Texture    string          `json:"texture"`
	Source     string          `json:"source,omitempty"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Grid       sheet.GridSpec  `json:"grid"`
	CellWidth  int             `json:"cell_width"`
	CellHeight int             `json:"cell_height"`
	Sprites    []SpriteEntry   `json:"sprites"`
	Flipbooks  []FlipbookEntry `json:"flipbooks"`
}

type SpriteEntry struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Path   string    `json:"path"`
	Row    int       `json:"row"`
	Col    int       `json:"col"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// FlipbookEntry is also the content of each Flipbooks/{name}.json file.
type FlipbookEntry struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Path   string    `json:"path"`
	Kind   anim.Kind `json:"kind"`
	Row    int       `json:"row"`
	FPS    float64   `json:"fps"`
	Frames []string  `json:"frames"`
}

// ID returns the stable id of the asset at a catalog path.
func ID(catalogPath string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(catalogPath))
}

func ManifestPath(dir, texture string) string {
	return filepath.Join(dir, texture+ManifestExt)
}

// Build computes the manifest for s without touching the filesystem.
func Build(s *Sheet) (*Manifest, error) {
	if s == nil {
		return nil, fmt.Errorf("catalog: nil sheet")
	}
	if err := checkAssetName(s.Texture); err != nil {
		return nil, fmt.Errorf("catalog: texture: %w", err)
	}

	cw, ch := s.Grid.CellSize(s.Width, s.Height)
	m := &Manifest{
		ID:         ID(s.Texture + ManifestExt),
		Texture:    s.Texture,
		Source:     filepath.ToSlash(s.Source),
		Width:      s.Width,
		Height:     s.Height,
		Grid:       s.Grid,
		CellWidth:  cw,
		CellHeight: ch,
		Sprites:    make([]SpriteEntry, 0, len(s.Cells)),
		Flipbooks:  make([]FlipbookEntry, 0, len(s.Sequences)),
	}

	sprites := make(map[string]bool, len(s.Cells))
	for i := range s.Cells {
		c := &s.Cells[i]
		if err := checkAssetName(c.Name); err != nil {
			return nil, fmt.Errorf("catalog: sprite: %w", err)
		}
		if sprites[c.Name] {
			return nil, fmt.Errorf("catalog: duplicate sprite %q", c.Name)
		}
		sprites[c.Name] = true
		p := path.Join(SpritesDir, c.Name+".png")
		m.Sprites = append(m.Sprites, SpriteEntry{
			ID:     ID(p),
			Name:   c.Name,
			Path:   p,
			Row:    c.Row,
			Col:    c.Col,
			Width:  c.Width,
			Height: c.Height,
		})
	}

	used := make(map[string]bool, len(s.Sequences))
	for i := range s.Sequences {
		seq := &s.Sequences[i]
		name := seq.Name
		if used[name] {
			name = fmt.Sprintf("%s_R%d", name, seq.Row)
		}
		if used[name] {
			return nil, fmt.Errorf("catalog: duplicate flipbook %q", name)
		}
		if err := checkAssetName(name); err != nil {
			return nil, fmt.Errorf("catalog: flipbook: %w", err)
		}
		used[name] = true

		frames := make([]string, len(seq.Frames))
		for j, f := range seq.Frames {
			if f == nil || !sprites[f.Name] {
				return nil, fmt.Errorf("catalog: flipbook %q frame %d has no sprite", name, j)
			}
			frames[j] = f.Name
		}
		p := path.Join(FlipbooksDir, name+".json")
		m.Flipbooks = append(m.Flipbooks, FlipbookEntry{
			ID:     ID(p),
			Name:   name,
			Path:   p,
			Kind:   seq.Kind,
			Row:    seq.Row,
			FPS:    seq.FPS,
			Frames: frames,
		})
	}

	return m, nil
}

// Save writes the sprites, flipbooks and manifest of s under dir. Files are
// staged in a temporary directory and only moved into place once every file
// has been written. A failed move leaves dir as it was.
func Save(dir string, s *Sheet) (*Manifest, error) {
	m, err := Build(s)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	tmp, err := os.MkdirTemp(dir, ".staging-")
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer os.RemoveAll(tmp)

	for _, sub := range []string{SpritesDir, FlipbooksDir} {
		if err := os.MkdirAll(filepath.Join(tmp, sub), 0755); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}

	for i := range s.Cells {
		if err := writePNG(filepath.Join(tmp, filepath.FromSlash(m.Sprites[i].Path)), s.Cells[i].Image()); err != nil {
			return nil, fmt.Errorf("catalog: sprite %s: %w", m.Sprites[i].Name, err)
		}
	}
	for i := range m.Flipbooks {
		fb := &m.Flipbooks[i]
		if err := writeJSON(filepath.Join(tmp, filepath.FromSlash(fb.Path)), fb); err != nil {
			return nil, fmt.Errorf("catalog: flipbook %s: %w", fb.Name, err)
		}
	}
	manifestName := m.Texture + ManifestExt
	if err := writeJSON(filepath.Join(tmp, manifestName), m); err != nil {
		return nil, fmt.Errorf("catalog: manifest: %w", err)
	}

	for _, sub := range []string{SpritesDir, FlipbooksDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	moves := make([]string, 0, len(m.Sprites)+len(m.Flipbooks)+1)
	for _, sp := range m.Sprites {
		moves = append(moves, sp.Path)
	}
	for _, fb := range m.Flipbooks {
		moves = append(moves, fb.Path)
	}
	moves = append(moves, manifestName)
	if err := commit(tmp, dir, moves); err != nil {
		return nil, err
	}
	return m, nil
}

type move struct {
	dst string
	// replaced holds the file dst pointed at before the move, if any.
	replaced string
}

// commit moves each staged file into dir. If a move fails, the files already
// moved are removed and the ones they replaced are put back.
func commit(staging, dir string, rels []string) error {
	backup := filepath.Join(staging, ".replaced")
	var done []move
	undo := func() {
		for i := len(done) - 1; i >= 0; i-- {
			os.Remove(done[i].dst)
			if done[i].replaced != "" {
				os.Rename(done[i].replaced, done[i].dst)
			}
		}
	}

	for _, rel := range rels {
		native := filepath.FromSlash(rel)
		mv := move{dst: filepath.Join(dir, native)}
		if info, err := os.Lstat(mv.dst); err == nil && !info.IsDir() {
			mv.replaced = filepath.Join(backup, native)
			if err := os.MkdirAll(filepath.Dir(mv.replaced), 0755); err != nil {
				undo()
				return fmt.Errorf("catalog: %w", err)
			}
			if err := os.Rename(mv.dst, mv.replaced); err != nil {
				undo()
				return fmt.Errorf("catalog: move %s: %w", rel, err)
			}
		}
		if err := os.Rename(filepath.Join(staging, native), mv.dst); err != nil {
			if mv.replaced != "" {
				os.Rename(mv.replaced, mv.dst)
			}
			undo()
			return fmt.Errorf("catalog: move %s: %w", rel, err)
		}
		done = append(done, mv)
	}
	return nil
}

// Load reads a manifest file.
func Load(manifestPath string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Flipbook returns the manifest entry with the given name.
func (m *Manifest) Flipbook(name string) (*FlipbookEntry, bool) {
	for i := range m.Flipbooks {
		if m.Flipbooks[i].Name == name {
			return &m.Flipbooks[i], true
		}
	}
	return nil, false
}

func (m *Manifest) sprite(name string) (*SpriteEntry, bool) {
	for i := range m.Sprites {
		if m.Sprites[i].Name == name {
			return &m.Sprites[i], true
		}
	}
	return nil, false
}

// LoadFrames decodes the sprite images of a flipbook in frame order.
func LoadFrames(dir string, m *Manifest, flipbook string) ([]image.Image, error) {
	fb, ok := m.Flipbook(flipbook)
	if !ok {
		return nil, fmt.Errorf("catalog: no flipbook %q in %s", flipbook, m.Texture)
	}

	frames := make([]image.Image, 0, len(fb.Frames))
	for _, name := range fb.Frames {
		sp, ok := m.sprite(name)
		if !ok {
			return nil, fmt.Errorf("catalog: flipbook %q references missing sprite %q", flipbook, name)
		}
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(sp.Path)))
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", sp.Path, err)
		}
		frames = append(frames, img)
	}
	return frames, nil
}

func checkAssetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty name")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}

func writePNG(p string, img image.Image) error {
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(p string, v any) error {
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
