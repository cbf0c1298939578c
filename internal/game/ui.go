package game

import (
	"fmt"
	"log"
	"strings"

	"sculpt3d/internal/sculpt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const msgDuration = 2.0

var (
	colorBgDark        = rl.NewColor(24, 24, 30, 255)
	colorBgPanel       = rl.NewColor(34, 34, 42, 235)
	colorBgElement     = rl.NewColor(45, 45, 56, 255)
	colorBgHover       = rl.NewColor(58, 58, 72, 255)
	colorAccent        = rl.NewColor(90, 160, 255, 255)
	colorTextPrimary   = rl.NewColor(230, 230, 235, 255)
	colorTextSecondary = rl.NewColor(160, 160, 175, 255)
)

func setupStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
}

func modeLabels() string {
	var names []string
	for _, m := range sculpt.Modes() {
		names = append(names, m.String())
	}
	return strings.Join(names, "\n")
}

// drawPanel draws the brush tool panel and returns its bounds for input masking.
func (g *Game) drawPanel() rl.Rectangle {
	e := g.Sculptor.Engine
	panel := rl.Rectangle{X: 10, Y: 10, Width: 200, Height: 330}
	rl.DrawRectangleRec(panel, colorBgPanel)
	rl.DrawText("BRUSH", int32(panel.X)+10, int32(panel.Y)+10, 10, colorTextSecondary)

	y := panel.Y + 30
	mode := gui.ToggleGroup(rl.Rectangle{X: panel.X + 10, Y: y, Width: 180, Height: 24}, modeLabels(), int32(e.Mode()))
	if sculpt.Mode(mode) != e.Mode() {
		g.setMode(sculpt.Mode(mode))
	}
	y += 5*26 + 10

	b := e.Brush()
	rl.DrawText(fmt.Sprintf("Radius %.2f", b.Radius), int32(panel.X)+10, int32(y), 10, colorTextSecondary)
	b.Radius = gui.Slider(rl.Rectangle{X: panel.X + 10, Y: y + 14, Width: 180, Height: 14}, "", "", b.Radius, 0.05, 2)
	y += 36
	rl.DrawText(fmt.Sprintf("Strength %.2f", b.Strength), int32(panel.X)+10, int32(y), 10, colorTextSecondary)
	b.Strength = gui.Slider(rl.Rectangle{X: panel.X + 10, Y: y + 14, Width: 180, Height: 14}, "", "", b.Strength, -0.5, 0.5)
	e.SetBrush(b.Radius, b.Strength)
	y += 40

	if gui.Button(rl.Rectangle{X: panel.X + 10, Y: y, Width: 85, Height: 24}, "Undo") {
		g.Sculptor.Undo(g.Target)
	}
	if gui.Button(rl.Rectangle{X: panel.X + 105, Y: y, Width: 85, Height: 24}, "Revert") {
		if err := e.Revert(); err != nil {
			log.Printf("Sculpt: %v", err)
		}
	}
	y += 32
	rl.DrawText(fmt.Sprintf("History %d  Queued %d", e.HistoryLen(), g.Sculptor.Pending()), int32(panel.X)+10, int32(y), 10, colorTextSecondary)
	rl.DrawText(fmt.Sprintf("Target #%d", e.BoundHandle()), int32(panel.X)+10, int32(y)+14, 10, colorTextSecondary)

	return panel
}

func (g *Game) drawMsg() {
	if g.msg == "" || rl.GetTime()-g.msgTime > msgDuration {
		return
	}
	w := rl.MeasureText(g.msg, 16)
	x := int32(rl.GetScreenWidth())/2 - w/2
	y := int32(rl.GetScreenHeight()) - 40
	rl.DrawRectangle(x-10, y-6, w+20, 28, colorBgPanel)
	rl.DrawText(g.msg, x, y, 16, colorTextPrimary)
}
