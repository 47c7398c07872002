package main

import (
	"errors"
	"fmt"
	"os"

	"manipulators/internal/config"
	"manipulators/internal/editor"
	"manipulators/internal/logging"
	"manipulators/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	scenePath  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "editor",
	Short: "Open the scene editor with move, rotate and scale handles",
	RunE:  runEditor,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "manipulators.yaml", "Config file")
	rootCmd.Flags().StringVarP(&scenePath, "scene", "s", "", "Scene file (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadWorld(cfg *config.Config, logger *zap.Logger) (*world.World, error) {
	if cfg.Editor.ScenePath == "" {
		logger.Info("No scene given, using demo scene", zap.Int64("seed", cfg.Editor.DemoSeed))
		return world.NewDemo(cfg.Editor.DemoSeed), nil
	}
	w, err := world.Load(cfg.Editor.ScenePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("Scene file not found, starting from the demo scene", zap.String("path", cfg.Editor.ScenePath))
		return world.NewDemo(cfg.Editor.DemoSeed), nil
	}
	return w, err
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if scenePath != "" {
		cfg.Editor.ScenePath = scenePath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	w, err := loadWorld(cfg, logger)
	if err != nil {
		return err
	}

	ed, err := editor.New(w, cfg, logger)
	if err != nil {
		return err
	}
	if err := ed.LoadPrefs(); err != nil {
		logger.Warn("Ignoring editor prefs", zap.Error(err))
	}

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Editor.WindowWidth), int32(cfg.Editor.WindowHeight), cfg.Editor.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Editor.TargetFPS))
	rl.SetExitKey(rl.KeyNull)
	editor.InitStyle()

	logger.Info("Editor started",
		zap.String("scene", cfg.Editor.ScenePath),
		zap.Int("objects", len(w.Scene.GameObjects)))

	for !rl.WindowShouldClose() {
		ed.Update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(30, 30, 36, 255))
		rl.BeginMode3D(ed.GetRaylibCamera())
		ed.Draw3D()
		rl.EndMode3D()
		ed.DrawUI()
		rl.EndDrawing()
	}

	if err := ed.SavePrefs(); err != nil {
		logger.Warn("Saving editor prefs failed", zap.Error(err))
	}
	return nil
}
