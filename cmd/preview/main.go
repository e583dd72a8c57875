package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/camera"
	"github.com/milk9111/sheetsmith/catalog"
	"github.com/milk9111/sheetsmith/inputmap"
	"github.com/milk9111/sheetsmith/inputmap/device"
	"github.com/milk9111/sheetsmith/recipes"
	"github.com/milk9111/sheetsmith/sheet"
	"golang.design/x/clipboard"
)

const (
	screenWidth  = 960
	screenHeight = 540
	groundY      = 460
)

func main() {
	manifestPath := flag.String("manifest", "", "catalog manifest to preview (Content/<texture>.manifest.json)")
	recipeName := flag.String("recipe", "", "recipe whose preview settings (background, scale) to use")
	scale := flag.Float64("scale", 0, "sprite scale (overrides the recipe)")
	inputPath := flag.String("input", "", "input context YAML for play mode (default WASD + left mouse)")
	play := flag.Bool("play", false, "start in play mode")
	flag.Parse()

	if *manifestPath == "" {
		log.Fatal("preview: -manifest is required")
	}

	m, err := catalog.Load(*manifestPath)
	if err != nil {
		log.Fatal(err)
	}
	dir := filepath.Dir(*manifestPath)
	seqs, images, err := loadSequences(dir, m)
	if err != nil {
		log.Fatal(err)
	}

	g := &previewGame{
		texture:    m.Texture,
		seqs:       seqs,
		images:     images,
		scale:      2,
		background: color.NRGBA{R: 0x1e, G: 0x1e, B: 0x28, A: 0xff},
		camera:     camera.New(screenWidth-panelWidth, screenHeight),
		input:      inputmap.Default(),
	}
	if *recipeName != "" {
		r, err := recipes.LoadRecipe(*recipeName)
		if err != nil {
			log.Fatal(err)
		}
		g.scale = r.Preview.Scale
		if r.Preview.Background != nil {
			g.background = r.Preview.Background.Color
		}
	}
	if *scale > 0 {
		g.scale = *scale
	}
	if *inputPath != "" {
		ctx, err := inputmap.Load(*inputPath)
		if err != nil {
			log.Fatal(err)
		}
		g.input = ctx
	}
	for _, k := range device.Unsupported(g.input) {
		log.Printf("preview: input key %q is not supported and will never fire", k)
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("preview: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	g.player = anim.NewPlayer(nil, true)
	g.ui = newPreviewUI(g)
	g.selectFlipbook(0)
	if *play {
		g.setPlayMode(true)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("sheetsmith preview - %s", m.Texture))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// loadSequences rebuilds flipbook sequences from the catalog so the same
// anim.Player and warrior code used on freshly sliced sheets drive the
// preview.
func loadSequences(dir string, m *catalog.Manifest) ([]anim.Sequence, map[*sheet.SpriteCell]*ebiten.Image, error) {
	seqs := make([]anim.Sequence, 0, len(m.Flipbooks))
	images := make(map[*sheet.SpriteCell]*ebiten.Image)

	for _, fb := range m.Flipbooks {
		frames, err := catalog.LoadFrames(dir, m, fb.Name)
		if err != nil {
			return nil, nil, err
		}
		seq := anim.Sequence{
			Kind:   fb.Kind,
			Name:   fb.Name,
			Row:    fb.Row,
			FPS:    fb.FPS,
			Frames: make([]*sheet.SpriteCell, len(frames)),
		}
		for i, img := range frames {
			cell := cellFromImage(fb.Frames[i], img)
			seq.Frames[i] = cell
			images[cell] = ebiten.NewImageFromImage(img)
		}
		seqs = append(seqs, seq)
	}
	return seqs, images, nil
}

func cellFromImage(name string, img image.Image) *sheet.SpriteCell {
	src := sheet.FromImage(img)
	return &sheet.SpriteCell{
		Name:   name,
		Width:  src.Width,
		Height: src.Height,
		Stride: src.Stride,
		Pix:    src.Pix,
	}
}
