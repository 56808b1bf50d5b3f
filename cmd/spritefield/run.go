package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/spritefield"
	"github.com/phanxgames/spritefield/ebitensurface"
)

var (
	runWidth      int
	runHeight     int
	runFPS        bool
	runSequence   string
	runLoop       bool
	runTransition string
	runShotDir    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window and animate a state",
	Long: `Open a resizable window and animate the starting state.

Keys: Space pause, R randomize all, C colors, M motion, B blend mode,
S shapes, P screenshot, Esc quit.

With --sequence, the steps of a YAML sequence file are played in order
and the window closes after the last hold unless --loop is set.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runWidth, "width", 1280, "Window width")
	runCmd.Flags().IntVar(&runHeight, "height", 720, "Window height")
	runCmd.Flags().BoolVar(&runFPS, "fps", false, "Show FPS and TPS")
	runCmd.Flags().StringVar(&runSequence, "sequence", "", "YAML sequence file to play")
	runCmd.Flags().BoolVar(&runLoop, "loop", false, "Loop the sequence")
	runCmd.Flags().StringVar(&runTransition, "transition", "smooth", "Transition used by the randomize keys: instant, fade or smooth")
	runCmd.Flags().StringVar(&runShotDir, "screenshots", "screenshots", "Directory for screenshots")
}

func runRun(cmd *cobra.Command, args []string) error {
	st, err := loadState()
	if err != nil {
		return err
	}
	var transition spritefield.TransitionKind
	_ = transition.UnmarshalText([]byte(runTransition))

	var seq []spritefield.SequenceStep
	if runSequence != "" {
		f, err := os.Open(runSequence)
		if err != nil {
			return fmt.Errorf("open sequence: %w", err)
		}
		seq, err = spritefield.LoadSequence(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("load sequence %s: %w", runSequence, err)
		}
	}

	store := openSettings()
	if store != nil {
		defer store.Close()
	}
	assets := newAssetCache()
	cfg := spritefield.Config{
		State:               &st,
		Assets:              assets,
		Width:               runWidth,
		Height:              runHeight,
		RandomizeTransition: transition,
		Debug:               flagVerbose,
	}
	if store != nil {
		cfg.Settings = store
	}
	ctrl := spritefield.NewController(cfg)
	defer ctrl.Destroy()
	preload(ctrl, assets, 5*time.Second)

	rc := ebitensurface.RunConfig{
		Title:         "spritefield - " + st.Seed,
		Width:         runWidth,
		Height:        runHeight,
		ShowFPS:       runFPS,
		Keys:          true,
		ScreenshotDir: runShotDir,
	}
	if len(seq) > 0 {
		rc.Sequencer = spritefield.NewSequencer(ctrl, seq, runLoop)
	}
	return ebitensurface.Run(ctrl, rc)
}
