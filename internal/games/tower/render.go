package tower

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-tower/internal/core"
	"github.com/vovakirdan/tui-tower/internal/powerup"
	"github.com/vovakirdan/tui-tower/internal/stack"
	"github.com/vovakirdan/tui-tower/internal/weather"
)

// hudRows is the number of rows above the play field.
const hudRows = 2

// Visual characters for rendering
const (
	PlatformChar = '▀'
	WallChar     = '│'
	TargetChar   = '-'
	RainChar     = '\''
	SnowChar     = '.'
	HeldGuide    = ':'
)

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	// Check for screen too small
	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	held, hasHeld := g.session.Held()
	g.follow(held, hasHeld)

	snap := g.session.Snapshot()
	g.renderSky(dst, snap)
	g.renderWorld(dst)
	g.renderPickups(dst)
	g.renderBlocks(dst)
	if hasHeld {
		g.renderHeld(dst, &held)
	}
	g.renderHUD(dst)
	g.renderOverlay(dst, snap)
}

// follow scrolls the view so the spawn point stays visible.
func (g *Game) follow(held stack.Block, hasHeld bool) {
	focus := g.session.CurrentMaxHeight()
	if hasHeld {
		focus = held.Position().Y() + held.HalfSize().Y()
	}
	floor := g.session.Level().BaseHeight - 2
	g.view.Follow(focus, 2, floor)
}

// project maps a world box to screen cells below the HUD.
func (g *Game) project(minX, minY, maxX, maxY float64) core.Rect {
	r := g.view.Project(minX, minY, maxX, maxY)
	r.Y += hudRows
	return r
}

// rowOf returns the screen row of a world height.
func (g *Game) rowOf(y float64) int {
	_, row := g.view.ToScreen(0, y)
	return row + hudRows
}

// renderSky draws rain and snow across the play field.
func (g *Game) renderSky(dst *core.Screen, snap stack.Snapshot) {
	rain := snap.Weather == weather.Rainy
	snow := g.session.Level().Hazards.Snow
	if !rain && !snow {
		return
	}
	shift := int(snap.Tick / 4)
	for y := hudRows; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			switch {
			case rain && (x*7+y*3+shift)%23 == 0:
				dst.SetColor(x, y, RainChar, core.ColorBlue)
			case snow && (x*5+y*11+shift/2)%41 == 0:
				dst.SetColor(x, y, SnowChar, core.ColorWhite)
			}
		}
	}
}

// renderWorld draws the platform, the lateral walls and the target line.
func (g *Game) renderWorld(dst *core.Screen) {
	cfg := g.session.Config()
	lvl := g.session.Level()

	if !lvl.Endless {
		row := g.rowOf(lvl.TargetHeight)
		if row >= hudRows {
			dst.DrawHLine(0, row, dst.Width(), TargetChar, core.ColorGreen)
			dst.DrawTextColor(1, row, fmt.Sprintf(" TARGET %.0f ", lvl.TargetHeight), core.ColorBrightGreen)
		}
	}

	left, _ := g.view.ToScreen(-cfg.LateralBound, 0)
	right, _ := g.view.ToScreen(cfg.LateralBound, 0)
	for y := hudRows; y < dst.Height(); y++ {
		dst.SetColor(left-1, y, WallChar, core.ColorGray)
		dst.SetColor(right, y, WallChar, core.ColorGray)
	}

	platform := g.project(-cfg.PlatformHalfWidth, lvl.BaseHeight-1, cfg.PlatformHalfWidth, lvl.BaseHeight)
	dst.DrawRectColor(platform, PlatformChar, core.ColorGray)
}

// renderPickups draws the floating power-ups.
func (g *Game) renderPickups(dst *core.Screen) {
	for _, p := range g.session.PowerUps().Pickups {
		x, y := g.view.ToScreen(p.Pos.X(), p.Pos.Y())
		dst.SetColor(x, y+hudRows, p.Kind.Glyph(), core.ColorMagenta)
	}
}

// renderBlocks draws dropped and frozen blocks.
func (g *Game) renderBlocks(dst *core.Screen) {
	for _, b := range g.session.Blocks() {
		color := core.ColorYellow
		if b.State() == stack.Frozen {
			color = core.ColorCyan
			if g.fx.flashing(b.ID()) {
				color = core.ColorBrightWhite
			}
		}
		g.drawBlock(dst, &b, color)
	}
}

// renderHeld draws the held block and a guide down to the tower.
func (g *Game) renderHeld(dst *core.Screen, b *stack.Block) {
	r := g.drawBlock(dst, b, core.ColorBrightGreen)
	x := r.X + r.W/2
	stop := g.rowOf(g.session.CurrentMaxHeight())
	for y := r.Bottom(); y < stop && y < dst.Height(); y++ {
		if dst.Get(x, y) == ' ' {
			dst.SetColor(x, y, HeldGuide, core.ColorGray)
		}
	}
}

func (g *Game) drawBlock(dst *core.Screen, b *stack.Block, color core.Color) core.Rect {
	box := b.Box()
	r := g.project(box.Min().X(), box.Min().Y(), box.Max().X(), box.Max().Y())
	dst.DrawRectColor(r, b.Kind().Glyph, color)
	return r
}

// renderHUD draws score, height, weather and effects.
func (g *Game) renderHUD(dst *core.Screen) {
	lvl := g.session.Level()

	// Score on left
	scoreText := fmt.Sprintf("Score: %d  Blocks: %d", g.session.CurrentScore(), g.session.BlocksUsed())
	dst.DrawText(1, 0, scoreText)

	// Height in center
	height := g.session.CurrentMaxHeight()
	heightText := fmt.Sprintf("Height: %.1f", height)
	if !lvl.Endless {
		heightText = fmt.Sprintf("Height: %.1f/%.0f", height, lvl.TargetHeight)
	}
	dst.DrawTextCentered(0, heightText)

	// Level on right
	levelText := "Endless"
	if !lvl.Endless {
		levelText = fmt.Sprintf("Level %d/%d %s", lvl.Number(), g.pack.Len(), lvl.Name)
	}
	dst.DrawText(dst.Width()-len([]rune(levelText))-1, 0, levelText)

	// Weather and effects on row 1
	w := g.session.Weather()
	parts := []string{w.Kind.String()}
	if w.Kind == weather.Windy {
		parts[0] = fmt.Sprintf("Windy %s %.1f", windArrow(w.Direction), math.Abs(w.Force))
	}
	if lvl.Hazards.Snow {
		parts = append(parts, "Snow")
	}
	if lvl.Hazards.Boss {
		parts = append(parts, "Boss")
	}
	pu := g.session.PowerUps()
	if pu.GlueRemaining > 0 {
		parts = append(parts, fmt.Sprintf("%s(%.0f)", powerup.Glue, math.Ceil(pu.GlueRemaining)))
	}
	if pu.FreezeCharges > 0 {
		parts = append(parts, fmt.Sprintf("%s x%d [F]", powerup.InstantFreeze, pu.FreezeCharges))
	}
	dst.DrawTextColor(1, 1, strings.Join(parts, "  "), weatherColor(w.Kind))

	if g.fx.banner != "" {
		x := dst.Width() - len([]rune(g.fx.banner)) - 1
		dst.DrawTextColor(x, 1, g.fx.banner, core.ColorBrightYellow)
	}
}

func weatherColor(k weather.Kind) core.Color {
	switch k {
	case weather.Rainy:
		return core.ColorBrightBlue
	case weather.Windy:
		return core.ColorOrange
	default:
		return core.ColorYellow
	}
}

// renderOverlay draws game state messages.
func (g *Game) renderOverlay(dst *core.Screen, snap stack.Snapshot) {
	switch {
	case snap.State == stack.StateDegraded:
		dst.DrawTextCenteredColor(dst.Height()-1, "Configuration error: no blocks can spawn", core.ColorBrightRed)

	case snap.State == stack.StateComplete:
		title := "LEVEL COMPLETE"
		subtitle := fmt.Sprintf("Score: %d", snap.Score)
		if out, ok := g.session.Outcome(); ok {
			subtitle = fmt.Sprintf("Score: %d  Best: %d", out.Score, out.HighScore)
			if out.NewBest {
				title = "LEVEL COMPLETE - NEW BEST"
			}
		}
		hint := "N: next level  R: retry"
		if !g.hasNextLevel() {
			title = "TOWER COMPLETE"
			hint = "R: retry  B: menu"
		}
		g.drawCenteredBox(dst, title, subtitle+"  |  "+hint)

	case g.paused:
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")

	case snap.BlocksUsed == 0:
		dst.DrawTextCentered(dst.Height()-1, "←/→ move  SPACE drop  F freeze  P pause")
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box background
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
