package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/sheetsmith/anim"
	"github.com/milk9111/sheetsmith/camera"
	"github.com/milk9111/sheetsmith/inputmap"
	"github.com/milk9111/sheetsmith/inputmap/device"
	"github.com/milk9111/sheetsmith/sheet"
	"github.com/milk9111/sheetsmith/warrior"
	"golang.design/x/clipboard"
)

type previewGame struct {
	texture    string
	seqs       []anim.Sequence
	images     map[*sheet.SpriteCell]*ebiten.Image
	player     *anim.Player
	selected   int
	paused     bool
	scale      float64
	background color.Color
	camera     *camera.Camera

	playMode bool
	warrior  *warrior.Warrior
	input    *inputmap.Context

	clipboardOK bool
	status      string

	ui    *ebitenui.UI
	label *widget.Text
}

func (g *previewGame) selectFlipbook(i int) {
	if len(g.seqs) == 0 {
		return
	}
	g.selected = (i%len(g.seqs) + len(g.seqs)) % len(g.seqs)
	g.player.Play(&g.seqs[g.selected])
	g.player.Reset()
	g.refreshLabel()
}

func (g *previewGame) setPlayMode(on bool) {
	g.playMode = on
	if on {
		g.warrior = warrior.New(g.seqs, screenWidth/2, groundY)
	} else {
		g.warrior = nil
	}
	g.resetCamera()
	g.refreshLabel()
}

// resetCamera centres the camera on the warrior in play mode and on the
// flipbook otherwise.
func (g *previewGame) resetCamera() {
	g.camera.Reset()
	if g.warrior != nil {
		g.camera.SnapTo(g.warrior.Position())
	}
}

func (g *previewGame) copyName() {
	name := g.currentName()
	if name == "" {
		return
	}
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(name))
	g.status = fmt.Sprintf("copied %s", name)
	log.Printf("preview: copied %s to clipboard", name)
}

func (g *previewGame) currentName() string {
	if g.playMode && g.warrior != nil {
		if seq := g.warrior.Animation(); seq != nil {
			return seq.Name
		}
		return ""
	}
	if seq := g.player.Sequence(); seq != nil {
		return seq.Name
	}
	return ""
}

func (g *previewGame) refreshLabel() {
	if g.label == nil {
		return
	}
	if g.playMode {
		g.label.Label = "Play mode: WASD move, mouse attack"
		return
	}
	if seq := g.player.Sequence(); seq != nil {
		mode := "loop"
		if !g.player.Loop {
			mode = "once"
		}
		g.label.Label = fmt.Sprintf("%s (%d frames @ %gfps, %s)", seq.Name, seq.Len(), seq.FPS, mode)
	}
}

func (g *previewGame) Update() error {
	g.ui.Update()
	dt := 1.0 / float64(ebiten.TPS())

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.setPlayMode(!g.playMode)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyName()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.resetCamera()
	}

	in := device.Poll(g.input)
	g.camera.Zoom(in.Axis1D(inputmap.ZoomAction))
	g.camera.Rotate(in.Axis1D(inputmap.RotateAction), dt)

	if g.playMode {
		g.warrior.Update(warrior.InputFrom(in), dt)
		g.camera.Follow(g.warrior.Position())
		return nil
	}

	mx, my := in.Axis2D(inputmap.MoveAction)
	g.camera.Pan(mx, my, dt)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.selectFlipbook(g.selected + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.selectFlipbook(g.selected - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.player.Loop = !g.player.Loop
		g.refreshLabel()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
			g.player.SetFrame(g.player.Frame() + 1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
			g.player.SetFrame(g.player.Frame() - 1)
		}
		return nil
	}
	g.player.Update()
	// Playing once runs through every flipbook in turn.
	if g.player.Done() {
		g.selectFlipbook(g.selected + 1)
	}
	return nil
}

// worldOp centres cell on the world point x, y and maps it through the
// camera into the area right of the panel.
func (g *previewGame) worldOp(cell *sheet.SpriteCell, flip bool, x, y float64) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(cell.Width)/2, -float64(cell.Height)/2)
	if flip {
		op.GeoM.Scale(-1, 1)
	}
	op.GeoM.Scale(g.scale, g.scale)
	op.GeoM.Translate(x, y)
	g.camera.Transform(&op.GeoM)
	op.GeoM.Translate(panelWidth, 0)
	op.Filter = ebiten.FilterNearest
	return op
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	if g.playMode {
		g.drawWarrior(screen)
	} else if cell := g.player.Cell(); cell != nil {
		screen.DrawImage(g.images[cell], g.worldOp(cell, false, 0, 0))
	}

	g.ui.Draw(screen)
	ebitenutil.DebugPrintAt(screen, g.status, panelWidth+10, screenHeight-20)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom %.0f", g.camera.Distance()), screenWidth-80, screenHeight-20)
}

func (g *previewGame) drawWarrior(screen *ebiten.Image) {
	x, y := g.warrior.Position()
	x0, y0 := g.camera.WorldToScreen(x-screenWidth, groundY)
	x1, y1 := g.camera.WorldToScreen(x+screenWidth, groundY)
	ebitenutil.DrawLine(screen, x0+panelWidth, y0, x1+panelWidth, y1, color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff})

	cell := g.warrior.Player().Cell()
	if cell == nil {
		return
	}
	// Sprites are centred on the body; the bottom of the frame sits on the
	// body's feet.
	op := g.worldOp(cell, g.warrior.FacingLeft(), x, y+warrior.BodyHeight/2-float64(cell.Height)*g.scale/2)
	screen.DrawImage(g.images[cell], op)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("state: %s  anim: %s", g.warrior.State(), g.currentName()), panelWidth+10, 10)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
