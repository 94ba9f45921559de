package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/akhenakh/orbitsim"
)

var background = color.RGBA{100, 100, 100, 255}

// Game adapts a Mechanics to ebiten: one simulation tick per ebiten update.
type Game struct {
	mech    *orbitsim.Mechanics
	frame   orbitsim.Frame
	display orbitsim.Display
	paused  bool
}

// Update handles keys, then steps the simulation.
// D advances body 0, A rewinds it, P pauses, Escape quits.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if len(g.mech.Bodies) > 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyD) {
			_ = g.mech.Apply(orbitsim.Advance(0))
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyA) {
			_ = g.mech.Apply(orbitsim.Rewind(0))
		}
	}
	if g.paused {
		return nil
	}

	frame, err := g.mech.Step()
	if err != nil {
		return err
	}
	g.frame = frame
	return nil
}

// Draw clears the window and redraws every body from the last frame.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	c := g.frame.Central
	vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), float32(c.Radius), c.Color, true)
	for _, b := range g.frame.Bodies {
		vector.DrawFilledCircle(screen, float32(b.X), float32(b.Y), float32(b.Radius), b.Color, true)
	}

	hud := fmt.Sprintf("tick %d  bodies %d  TPS %.0f", g.frame.Tick, len(g.frame.Bodies), ebiten.ActualTPS())
	if len(g.mech.Bodies) > 0 {
		b := g.mech.Bodies[0]
		hud += fmt.Sprintf("\nbody 0: theta %.3f phi %.3f omega %.3e", b.Theta, b.Phi, b.Omega)
	}
	if g.paused {
		hud += "\npaused"
	}
	text.Draw(screen, hud, basicfont.Face7x13, 10, 20, color.White)
}

// Layout keeps the logical screen at the configured display size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.display.Width, g.display.Height
}

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (defaults to the built-in scene)")
	seed := flag.Uint64("seed", 0, "random seed, overrides the config seed when non-zero")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := orbitsim.DefaultConfig()
	if *configPath != "" {
		loaded, err := orbitsim.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	mech, err := orbitsim.NewFromConfig(cfg, orbitsim.NewRand(cfg.Seed), orbitsim.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to build simulation: %v", err)
	}

	tps := int(cfg.TickRate)
	if tps <= 0 {
		tps = ebiten.SyncWithFPS
	}
	ebiten.SetTPS(tps)
	ebiten.SetWindowSize(cfg.Display.Width, cfg.Display.Height)
	ebiten.SetWindowTitle("Orbit Simulation")

	g := &Game{mech: mech, frame: mech.Frame(), display: cfg.Display}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Simulation stopped: %v", err)
	}
}
