package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"manipulators/internal/config"
	"manipulators/internal/logging"
	"manipulators/internal/manipulators"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger

	// replay flags
	outputFormat  string
	saveScenePath string

	// pick / project flags
	viewScene  string
	viewCamera string
	viewTarget string
	viewFovy   float32
	viewWidth  int
	viewHeight int
	viewSelect string
	viewMode   string
)

var rootCmd = &cobra.Command{
	Use:   "manipreplay",
	Short: "Drive the viewport manipulators headlessly",
	Long: `manipreplay runs the editor's move, rotate and scale handles without a window.
It replays recorded interaction scripts against a scene and answers picking
and projection queries for a given camera.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay an interaction script and print the resulting transforms",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

var pickCmd = &cobra.Command{
	Use:   "pick <x> <y>",
	Short: "Report the handle and object under a screen point",
	Args:  cobra.ExactArgs(2),
	RunE:  runPick,
}

var projectCmd = &cobra.Command{
	Use:   "project <x> <y> <z>",
	Short: "Project a world point to screen coordinates",
	Args:  cobra.ExactArgs(3),
	RunE:  runProject,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "manipulators.yaml", "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	replayCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, yaml)")
	replayCmd.Flags().StringVarP(&saveScenePath, "out", "o", "", "Write the edited scene to this file")

	for _, cmd := range []*cobra.Command{pickCmd, projectCmd} {
		cmd.Flags().StringVar(&viewScene, "scene", "", "Scene file (default: demo scene)")
		cmd.Flags().StringVar(&viewCamera, "camera", "0,5,15", "Camera position x,y,z")
		cmd.Flags().StringVar(&viewTarget, "target", "0,0,0", "Camera target x,y,z")
		cmd.Flags().Float32Var(&viewFovy, "fovy", 45, "Vertical field of view in degrees")
		cmd.Flags().IntVar(&viewWidth, "width", 1280, "Viewport width")
		cmd.Flags().IntVar(&viewHeight, "height", 720, "Viewport height")
	}
	pickCmd.Flags().StringVar(&viewSelect, "select", "", "Object to show handles for")
	pickCmd.Flags().StringVar(&viewMode, "mode", "", "Handle mode (translate, rotate, scale)")

	rootCmd.AddCommand(replayCmd, pickCmd, projectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	script, err := LoadScript(args[0])
	if err != nil {
		return err
	}
	logger.Info("Replaying script",
		zap.String("path", args[0]),
		zap.Int("events", len(script.Events)))

	report, ed, err := Replay(script, cfg, logger)
	if err != nil {
		return err
	}
	if saveScenePath != "" {
		if err := ed.World().SaveScene(saveScenePath); err != nil {
			return err
		}
		logger.Info("Scene written", zap.String("path", saveScenePath))
	}
	return writeReport(cmd.OutOrStdout(), report, outputFormat)
}

func writeReport(w io.Writer, r *Report, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "mode\t%s\n", r.Mode)
		fmt.Fprintf(tw, "selected\t%s\n", r.Selected)
		fmt.Fprintf(tw, "undo depth\t%d\n", r.UndoDepth)
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "NAME\tPOSITION\tROTATION\tSCALE")
		for _, o := range r.Objects {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Name, fmtVec(o.Position, 3), fmtVec(o.Rotation, 1), fmtVec(o.Scale, 3))
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q (valid: text, yaml)", format)
}

func fmtVec(v [3]float32, prec int) string {
	return fmt.Sprintf("(%.*f, %.*f, %.*f)", prec, v[0], prec, v[1], prec, v[2])
}

func parseVec3(s string) ([3]float32, error) {
	var v [3]float32
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("vector %q: want x,y,z", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return v, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// viewScript turns the pick/project flags into an event-less script.
func viewScript() (*Script, error) {
	pos, err := parseVec3(viewCamera)
	if err != nil {
		return nil, fmt.Errorf("--camera: %w", err)
	}
	target, err := parseVec3(viewTarget)
	if err != nil {
		return nil, fmt.Errorf("--target: %w", err)
	}
	return &Script{
		Scene:    viewScene,
		Viewport: Viewport{Width: viewWidth, Height: viewHeight},
		Camera:   CameraDef{Position: pos, Target: target, Fovy: viewFovy},
		Select:   viewSelect,
		Mode:     viewMode,
	}, nil
}

func runPick(cmd *cobra.Command, args []string) error {
	xy, err := parseFloats(args)
	if err != nil {
		return err
	}
	script, err := viewScript()
	if err != nil {
		return err
	}
	ed, err := setupEditor(script, cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	state := ed.CameraState()
	mi := manipulators.NewMouseInteraction(state, rl.Vector2{X: xy[0], Y: xy[1]}, manipulators.Modifiers{})
	ed.Manager().Refresh(state)
	if m, t, ok := ed.Manager().Pick(mi.Ray); ok {
		fmt.Fprintf(out, "handle: %s (distance %.3f)\n", m.Base().ActionName, t)
	} else {
		fmt.Fprintln(out, "handle: none")
	}
	if hit, ok := ed.World().Raycast(mi.Ray.Position, mi.Ray.Direction, 1000); ok {
		fmt.Fprintf(out, "object: %s (distance %.3f)\n", hit.GameObject.Name, hit.Distance)
	} else {
		fmt.Fprintln(out, "object: none")
	}
	return nil
}

func runProject(cmd *cobra.Command, args []string) error {
	xyz, err := parseFloats(args)
	if err != nil {
		return err
	}
	script, err := viewScript()
	if err != nil {
		return err
	}
	ed, err := setupEditor(script, cfg, logger)
	if err != nil {
		return err
	}

	p, ok := ed.CameraState().WorldToScreen(rl.Vector3{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	if !ok {
		return fmt.Errorf("point (%g, %g, %g) is behind the camera", xyz[0], xyz[1], xyz[2])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%.1f %.1f\n", p.X, p.Y)
	return nil
}
