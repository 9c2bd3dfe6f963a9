// Command adaptrace drives the adaptive sampling controller against the
// built-in demo scene and writes the final render plus its diagnostic
// images to disk.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli"

	"github.com/mgallant/adaptrace/pkg/adaptive"
	"github.com/mgallant/adaptrace/pkg/core"
	"github.com/mgallant/adaptrace/pkg/scene"
)

func main() {
	app := cli.NewApp()
	app.Name = "adaptrace"
	app.Usage = "render the demo scene with adaptive per-pixel sampling"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "resolution", Value: 512, Usage: "long-axis pixel resolution"},
		cli.IntFlag{Name: "min-samples", Value: 32, Usage: "samples every pixel gets before adaptation begins"},
		cli.IntFlag{Name: "sample-step", Value: 8, Usage: "batch size per sampler-adapter call"},
		cli.IntFlag{Name: "max-samples", Value: 4096, Usage: "hard per-pixel sample cap"},
		cli.Float64Flag{Name: "desired-q", Value: 6, Usage: "target quality bits (used only when spp/seconds are both 0)"},
		cli.IntFlag{Name: "desired-spp", Value: 0, Usage: "target average samples per pixel (0 disables)"},
		cli.Float64Flag{Name: "desired-seconds", Value: 0, Usage: "wall-clock budget in seconds (0 disables)"},
		cli.Float64Flag{Name: "step-q", Value: 0.5, Usage: "quality threshold increment per iteration"},
		cli.Float64Flag{Name: "batch-step", Value: 1, Usage: "quality delta between batch callback firings"},
		cli.Int64Flag{Name: "seed", Value: 7, Usage: "global RNG seed"},
		cli.Float64Flag{Name: "clamp", Value: 10, Usage: "per-sample radiance clamp magnitude"},
		cli.BoolFlag{Name: "envhidden", Usage: "treat every sampler miss as a miss, even with a visible environment"},
		cli.BoolFlag{Name: "tentfilter", Usage: "remap film jitter through a tent reconstruction filter"},
		cli.StringFlag{Name: "out", Value: "render.png", Usage: "output PNG path"},
		cli.StringFlag{Name: "diagnostics", Value: "", Usage: "directory to write diagnostic images into (empty disables)"},
	}
	app.Action = render

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "adaptrace: %v\n", err)
		os.Exit(1)
	}
}

func render(ctx *cli.Context) error {
	logger := core.NewStdoutLogger()

	params := adaptive.AdaptiveParams{
		TraceParams: adaptive.TraceParams{
			TentFilter: ctx.Bool("tentfilter"),
			EnvHidden:  ctx.Bool("envhidden"),
			Clamp:      ctx.Float64("clamp"),
			Seed:       ctx.Int64("seed"),
		},
		MinSamples:     ctx.Int("min-samples"),
		SampleStep:     ctx.Int("sample-step"),
		MaxSamples:     ctx.Int("max-samples"),
		DesiredQ:       ctx.Float64("desired-q"),
		DesiredSPP:     ctx.Int("desired-spp"),
		DesiredSeconds: ctx.Float64("desired-seconds"),
		StepQ:          ctx.Float64("step-q"),
		BatchStep:      ctx.Float64("batch-step"),
		Resolution:     ctx.Int("resolution"),
	}

	demo := scene.NewDemoScene(params.Resolution, params.Resolution)

	controller := &adaptive.AdaptiveController{
		Logger: logger,
		Progress: func(state *adaptive.RenderState, phase string, current, max int) {
			logger.Printf("adaptrace: %-22s %6d / %d\n", phase, current, max)
		},
		Batch: func(state *adaptive.RenderState, currQ, desiredQ float64) {
			stat := adaptive.CollectStatistics(state)
			logger.Printf("adaptrace: batch q=%.2f/%.2f\n%s", currQ, desiredQ, stat.SummaryTable(currQ))
		},
	}

	logger.Printf("adaptrace: rendering at %dx%d\n", demo.Width(), demo.Height())
	start := time.Now()

	state, err := controller.TraceImage(demo, scene.TraceSample, params)
	if err != nil {
		return fmt.Errorf("trace image: %w", err)
	}

	logger.Printf("adaptrace: render finished in %s\n", time.Since(start))

	if err := writePNG(ctx.String("out"), state.ToImage()); err != nil {
		return err
	}
	logger.Printf("adaptrace: wrote %s\n", ctx.String("out"))

	if dir := ctx.String("diagnostics"); dir != "" {
		if err := writeDiagnostics(dir, state); err != nil {
			return err
		}
		logger.Printf("adaptrace: wrote diagnostics to %s\n", dir)
	}

	return nil
}

func writeDiagnostics(dir string, state *adaptive.RenderState) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create diagnostics dir: %w", err)
	}

	stat := adaptive.CollectStatistics(state)

	if err := writePNG(filepath.Join(dir, "samples.png"), adaptive.SampleDensityImage(state, stat)); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(dir, "time.png"), adaptive.TimeDensityImage(state)); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(dir, "quality.png"), adaptive.QualityImage(state)); err != nil {
		return err
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
