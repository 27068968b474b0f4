package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-viewer/internal/background"
)

func newSplashCmd() *cobra.Command {
	var (
		frames     int
		fps        int
		cols, rows int
		particles  int
		seed       uint64
	)
	cmd := &cobra.Command{
		Use:   "splash",
		Short: "Play the home screen particle field in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			c, r, isTerm := terminalSize(out)
			if cols == 0 {
				cols, rows = 80, 24
				if isTerm {
					cols, rows = c, r-1
				}
			}
			if !isTerm {
				// Pipes get a single still frame.
				frames = 1
			}
			if fps <= 0 {
				fps = 30
			}

			cfg := background.DefaultConfig()
			cfg.Particles = particles
			cfg.Seed = seed
			field := background.NewParticleField(cfg)
			renderer := lipgloss.NewRenderer(out)
			dt := time.Second / time.Duration(fps)

			ctx := cmd.Context()
			for i := 0; i < frames; i++ {
				// The pointer sweeps across the field so the repulsion shows.
				t := float64(i) / float64(max(frames, 1))
				ptr := background.Pointer{X: (t - 0.5) * cfg.Size, Y: 0, Active: true}
				field.Step(dt, ptr)

				frame := renderFrame(renderer, background.Rasterize(field.Frame(), cols, rows))
				if isTerm {
					frame = "\x1b[H" + frame
				}
				fmt.Fprint(out, frame)

				if i < frames-1 {
					select {
					case <-ctx.Done():
						return nil
					case <-time.After(dt):
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 150, "frames to play")
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	cmd.Flags().IntVar(&cols, "cols", 0, "width in characters (default: terminal width)")
	cmd.Flags().IntVar(&rows, "rows", 24, "height in characters")
	cmd.Flags().IntVar(&particles, "particles", 3000, "particle count")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "layout seed")
	return cmd
}
