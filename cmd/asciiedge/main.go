package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/codegangsta/cli"
	"github.com/kevin-cantwell/asciiedge"
)

const promptText = "Enter the maximum number of characters: "

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
// Errors are printed here rather than by cli, whose error path ends in
// os.Exit.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var failure error
	app := newApp(stdin, stdout, stderr, &failure)
	err := app.Run(args)
	if err == nil {
		err = failure
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", app.Name, err)
		return exitCode(err)
	}
	return 0
}

func newApp(stdin io.Reader, stdout, stderr io.Writer, failure *error) *cli.App {
	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "asciiedge"
	app.Usage = "A command-line tool for rendering images as edge-aware ASCII art."
	app.UsageText = "asciiedge [options] <image_path|url|-> [max_chars]"
	app.Author = "Kevin Cantwell"
	app.Email = "kevin.cantwell@gmail.com"
	app.Writer = stdout
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config,c",
			Usage: "Read settings from the YAML `FILE`.",
		},
		cli.StringFlag{
			Name:  "resampler,r",
			Usage: "`FILTER` used to shrink the image: box, linear, catmullrom, lanczos or nearest.",
			Value: asciiedge.FilterCatmullRom,
		},
		cli.StringFlag{
			Name:  "backend,b",
			Usage: "`BACKEND` that resamples the image: imaging, nfnt or xdraw.",
			Value: asciiedge.BackendImaging,
		},
		cli.Float64Flag{
			Name:  "char-aspect",
			Usage: "`RATIO` of a terminal glyph's height to its width.",
			Value: asciiedge.DefaultCharAspect,
		},
		cli.Float64Flag{
			Name:  "edge-weight",
			Usage: "`WEIGHT` of edges against brightness. 0 disables edge darkening.",
			Value: asciiedge.DefaultEdgeWeight,
		},
		cli.Float64Flag{
			Name:  "gamma,g",
			Usage: "GAMMA correction. 1.0 gives the original image, less darkens and more lightens it.",
			Value: 1.0,
		},
		cli.Float64Flag{
			Name:  "brightness",
			Usage: "BRIGHTNESS adjustment in the range (-100, 100). 0 gives the original image.",
			Value: 0.0,
		},
		cli.Float64Flag{
			Name:  "contrast",
			Usage: "CONTRAST adjustment in the range (-100, 100). 0 gives the original image.",
			Value: 0.0,
		},
		cli.Float64Flag{
			Name:  "sharpen,s",
			Usage: "SHARPEN sigma. 0 gives the original image.",
			Value: 0.0,
		},
		cli.Float64Flag{
			Name:  "sigmoid-midpoint",
			Usage: "Midpoint of the sigmoid contrast curve in the range (0, 1).",
			Value: 0.5,
		},
		cli.Float64Flag{
			Name:  "sigmoid-factor",
			Usage: "Steepness of the sigmoid contrast curve. 0 gives the original image.",
			Value: 0.0,
		},
		cli.BoolFlag{
			Name:  "invert,i",
			Usage: "Invert the image's tones.",
		},
		cli.BoolFlag{
			Name:  "fit-terminal,t",
			Usage: "Use the terminal's size as the character budget.",
		},
		cli.BoolFlag{
			Name:  "no-prompt",
			Usage: "Never ask for the character budget on stdin.",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log debug information to stderr.",
		},
	}
	app.Action = func(c *cli.Context) error {
		*failure = execute(c, app, stdin, stdout, stderr)
		return nil
	}
	return app
}

// execute runs one invocation. Its error decides the exit status.
func execute(c *cli.Context, app *cli.App, stdin io.Reader, stdout, stderr io.Writer) error {
	if c.Bool("verbose") {
		asciiedge.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	input := c.Args().First()
	if input == "" {
		return &asciiedge.UsageError{Msg: "missing image path\nusage: " + app.UsageText}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	// The budget is settled before any image I/O.
	maxChars, err := resolveBudget(budgetSources{
		arg:         c.Args().Get(1),
		hasArg:      len(c.Args()) > 1,
		fitTerminal: c.Bool("fit-terminal"),
		config:      cfg.MaxChars,
		prompt:      cfg.Prompt && input != "-",
		stdin:       stdin,
		promptOut:   stderr,
		termSize:    getTerminalSize,
	})
	if err != nil {
		return err
	}

	art, err := render(asciiedge.NewRenderer(opts...), input, stdin, maxChars)
	if err != nil {
		return err
	}
	_, err = art.WriteTo(stdout)
	return err
}

// loadConfig reads the --config file, if any, and applies flag overrides.
func loadConfig(c *cli.Context) (asciiedge.Config, error) {
	cfg := asciiedge.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = asciiedge.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if c.IsSet("resampler") {
		cfg.Resampler = c.String("resampler")
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	floats := []struct {
		flag string
		dst  *float64
	}{
		{"char-aspect", &cfg.CharAspect},
		{"edge-weight", &cfg.EdgeWeight},
		{"gamma", &cfg.Gamma},
		{"brightness", &cfg.Brightness},
		{"contrast", &cfg.Contrast},
		{"sharpen", &cfg.Sharpen},
		{"sigmoid-midpoint", &cfg.SigmoidMidpoint},
		{"sigmoid-factor", &cfg.SigmoidFactor},
	}
	for _, f := range floats {
		if c.IsSet(f.flag) {
			*f.dst = c.Float64(f.flag)
		}
	}
	if c.Bool("invert") {
		cfg.Invert = true
	}
	if c.Bool("no-prompt") {
		cfg.Prompt = false
	}
	return cfg, nil
}

type budgetSources struct {
	arg         string
	hasArg      bool
	fitTerminal bool
	config      int
	prompt      bool
	stdin       io.Reader
	promptOut   io.Writer
	termSize    func() (cols, lines int, err error)
}

// resolveBudget picks the character budget from the first source that has
// one: the positional argument, the terminal size, the config file and
// finally an interactive prompt. Without a prompt it falls back to
// asciiedge.DefaultMaxChars.
func resolveBudget(src budgetSources) (int, error) {
	if src.hasArg {
		return asciiedge.ParseMaxChars("max_chars", src.arg)
	}
	if src.fitTerminal {
		cols, lines, err := src.termSize()
		if err != nil {
			return 0, fmt.Errorf("reading terminal size: %w", err)
		}
		// Leave the last line for the shell prompt.
		if n := cols * (lines - 1); n > 0 {
			return n, nil
		}
		return 0, &asciiedge.UsageError{Msg: fmt.Sprintf("terminal too small: %dx%d", cols, lines)}
	}
	if src.config > 0 {
		return src.config, nil
	}
	if src.prompt {
		return promptBudget(src.stdin, src.promptOut)
	}
	return asciiedge.DefaultMaxChars, nil
}

func promptBudget(in io.Reader, out io.Writer) (int, error) {
	fmt.Fprint(out, promptText)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("reading max_chars: %w", err)
		}
		return 0, &asciiedge.UsageError{Msg: "missing max_chars"}
	}
	return asciiedge.ParseMaxChars("max_chars", scanner.Text())
}

// render reads input as stdin ("-"), a url or a file path.
func render(r *asciiedge.Renderer, input string, stdin io.Reader, maxChars int) (asciiedge.Art, error) {
	switch {
	case input == "-":
		return r.RenderReader(stdin, maxChars)
	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		resp, err := http.Get(input)
		if err != nil {
			return asciiedge.Art{}, &asciiedge.ImageError{Op: "fetch", Path: input, Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return asciiedge.Art{}, &asciiedge.ImageError{Op: "fetch", Path: input, Err: errors.New(resp.Status)}
		}
		art, err := r.RenderReader(resp.Body, maxChars)
		var ie *asciiedge.ImageError
		if errors.As(err, &ie) {
			ie.Path = input
		}
		return art, err
	}
	return r.Render(input, maxChars)
}

func exitCode(err error) int {
	var (
		usage *asciiedge.UsageError
		arg   *asciiedge.ArgumentParseError
		conf  *asciiedge.ConfigError
	)
	if errors.As(err, &usage) || errors.As(err, &arg) || errors.As(err, &conf) {
		return 2
	}
	return 1
}
