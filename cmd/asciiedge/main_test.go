package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/codegangsta/cli"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/asciiedge"
)

func whitePNG() []byte {
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var (
	solid = strings.Repeat(strings.Repeat("@", 15)+"\n", 6)
	blank = strings.Repeat(strings.Repeat(" ", 15)+"\n", 6)
)

var _ = Describe("asciiedge", func() {
	var (
		dir            string
		white          string
		stdin          *bytes.Buffer
		stdout, stderr *bytes.Buffer

		osExiter func(int)
		exits    []int
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "asciiedge-cmd")
		Expect(err).NotTo(HaveOccurred())
		white = filepath.Join(dir, "white.png")
		Expect(os.WriteFile(white, whitePNG(), 0o644)).To(Succeed())

		stdin = new(bytes.Buffer)
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)

		exits = nil
		osExiter = cli.OsExiter
		cli.OsExiter = func(code int) { exits = append(exits, code) }
	})

	AfterEach(func() {
		cli.OsExiter = osExiter
		os.RemoveAll(dir)
	})

	exec := func(args ...string) int {
		return run(append([]string{"asciiedge"}, args...), stdin, stdout, stderr)
	}

	It("prints the art for a path and budget", func() {
		Expect(exec(white, "100")).To(Equal(0))
		Expect(stdout.String()).To(Equal(solid))
		Expect(stderr.String()).NotTo(ContainSubstring(promptText))
	})

	It("fails with usage when the path is missing", func() {
		Expect(exec()).To(Equal(2))
		Expect(stderr.String()).To(ContainSubstring("missing image path"))
		Expect(stdout.String()).NotTo(ContainSubstring("@"))
	})

	It("reports failures itself instead of exiting through cli", func() {
		for _, tc := range []struct {
			args []string
			code int
		}{
			{nil, 2},
			{[]string{filepath.Join(dir, "missing.png"), "abc"}, 2},
			{[]string{"--gamma", "0", white, "100"}, 2},
			{[]string{filepath.Join(dir, "missing.png"), "100"}, 1},
		} {
			stderr.Reset()
			Expect(exec(tc.args...)).To(Equal(tc.code), strings.Join(tc.args, " "))
			Expect(stderr.String()).To(HavePrefix("asciiedge: "), strings.Join(tc.args, " "))
		}
		Expect(exits).To(BeEmpty())
	})

	It("rejects a non integer budget before touching the image", func() {
		Expect(exec(filepath.Join(dir, "missing.png"), "abc")).To(Equal(2))
		Expect(stderr.String()).To(ContainSubstring(`max_chars must be a positive integer, got "abc"`))
	})

	It("fails when the image cannot be opened", func() {
		Expect(exec(filepath.Join(dir, "missing.png"), "100")).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("image open"))
		Expect(stdout.String()).To(BeEmpty())
	})

	It("fails when the image cannot be decoded", func() {
		junk := filepath.Join(dir, "junk.jpg")
		Expect(os.WriteFile(junk, []byte("junk"), 0o644)).To(Succeed())
		Expect(exec(junk, "100")).To(Equal(1))
		Expect(stderr.String()).To(ContainSubstring("image decode"))
	})

	Context("without a budget argument", func() {
		It("prompts for one", func() {
			stdin.WriteString("100\n")
			Expect(exec(white)).To(Equal(0))
			Expect(stderr.String()).To(ContainSubstring(promptText))
			Expect(stdout.String()).To(Equal(solid))
		})

		It("rejects a non integer answer", func() {
			stdin.WriteString("lots\n")
			Expect(exec(white)).To(Equal(2))
			Expect(stdout.String()).To(BeEmpty())
		})

		It("falls back to the default budget when prompting is disabled", func() {
			Expect(exec("--no-prompt", white)).To(Equal(0))
			Expect(stderr.String()).NotTo(ContainSubstring(promptText))
			// 1000 characters fit a 50x20 grid for a square image.
			Expect(stdout.String()).To(Equal(strings.Repeat(strings.Repeat("@", 50)+"\n", 20)))
		})

		It("uses the config file budget", func() {
			cfg := filepath.Join(dir, "asciiedge.yaml")
			Expect(os.WriteFile(cfg, []byte("max_chars: 1\n"), 0o644)).To(Succeed())
			Expect(exec("--config", cfg, white)).To(Equal(0))
			Expect(stdout.String()).To(Equal("@\n"))
		})
	})

	It("prefers the argument over the config file", func() {
		cfg := filepath.Join(dir, "asciiedge.yaml")
		Expect(os.WriteFile(cfg, []byte("max_chars: 1\n"), 0o644)).To(Succeed())
		Expect(exec("--config", cfg, white, "100")).To(Equal(0))
		Expect(stdout.String()).To(Equal(solid))
	})

	It("reads the image from stdin", func() {
		stdin.Write(whitePNG())
		Expect(exec("-", "100")).To(Equal(0))
		Expect(stdout.String()).To(Equal(solid))
	})

	It("does not prompt when the image comes from stdin", func() {
		stdin.Write(whitePNG())
		Expect(exec("-")).To(Equal(0))
		Expect(stderr.String()).NotTo(ContainSubstring(promptText))
		Expect(strings.Count(stdout.String(), "\n")).To(Equal(20))
	})

	It("accepts every resampler backend", func() {
		for _, backend := range []string{"imaging", "nfnt", "xdraw"} {
			stdout.Reset()
			Expect(exec("--backend", backend, "--resampler", "nearest", white, "100")).To(Equal(0), backend)
			Expect(stdout.String()).To(Equal(solid), backend)
		}
	})

	It("rejects an unsupported resampler", func() {
		Expect(exec("--backend", "xdraw", "--resampler", "box", white, "100")).To(Equal(2))
		Expect(stderr.String()).To(ContainSubstring("not supported by the xdraw backend"))
	})

	It("takes the edge weight from a flag", func() {
		Expect(exec("--edge-weight", "0", white, "100")).To(Equal(0))
		Expect(stdout.String()).To(Equal(solid))

		stdout.Reset()
		Expect(exec("--edge-weight", "-1", white, "100")).To(Equal(2))
		Expect(stderr.String()).To(ContainSubstring("edge_weight"))
		Expect(stdout.String()).To(BeEmpty())
	})

	Context("with adjustments", func() {
		It("inverts the image", func() {
			Expect(exec("--invert", white, "100")).To(Equal(0))
			Expect(stdout.String()).To(Equal(blank))
		})

		It("darkens the image", func() {
			Expect(exec("--brightness", "-100", white, "100")).To(Equal(0))
			Expect(stdout.String()).To(Equal(blank))
		})

		It("lets flags override the config file", func() {
			cfg := filepath.Join(dir, "asciiedge.yaml")
			Expect(os.WriteFile(cfg, []byte("brightness: -100\n"), 0o644)).To(Succeed())
			Expect(exec("--config", cfg, white, "100")).To(Equal(0))
			Expect(stdout.String()).To(Equal(blank))

			stdout.Reset()
			Expect(exec("--config", cfg, "--brightness", "0", white, "100")).To(Equal(0))
			Expect(stdout.String()).To(Equal(solid))
		})

		It("rejects out of range values", func() {
			Expect(exec("--contrast", "150", white, "100")).To(Equal(2))
			Expect(stderr.String()).To(ContainSubstring("contrast"))
		})
	})

	It("logs debug output when verbose", func() {
		defer asciiedge.SetLogger(nil)
		Expect(exec("--verbose", white, "100")).To(Equal(0))
		Expect(stderr.String()).To(ContainSubstring("width=15"))
		Expect(stdout.String()).To(Equal(solid))
	})

	Context("with a url", func() {
		var server *httptest.Server

		BeforeEach(func() {
			data := whitePNG()
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/white.png" {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Content-Type", "image/png")
				w.Write(data)
			}))
		})

		AfterEach(func() {
			server.Close()
		})

		It("fetches the image", func() {
			Expect(exec(server.URL+"/white.png", "100")).To(Equal(0))
			Expect(stdout.String()).To(Equal(solid))
		})

		It("fails on a bad status", func() {
			Expect(exec(server.URL+"/gone.png", "100")).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("image fetch"))
		})
	})
})

var _ = Describe("resolveBudget", func() {
	terminal := func(cols, lines int, err error) func() (int, int, error) {
		return func() (int, int, error) { return cols, lines, err }
	}

	It("takes the argument first", func() {
		n, err := resolveBudget(budgetSources{arg: "30", hasArg: true, fitTerminal: true, config: 5, termSize: terminal(80, 25, nil)})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(30))
	})

	It("fits the terminal, leaving a line for the prompt", func() {
		n, err := resolveBudget(budgetSources{fitTerminal: true, config: 5, termSize: terminal(80, 25, nil)})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(80 * 24))
	})

	It("reports terminal errors", func() {
		_, err := resolveBudget(budgetSources{fitTerminal: true, termSize: terminal(-1, -1, errors.New("not a tty"))})
		Expect(err).To(MatchError(ContainSubstring("not a tty")))
	})

	It("falls back to the config and then the prompt", func() {
		n, err := resolveBudget(budgetSources{config: 5, prompt: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(5))

		var out bytes.Buffer
		n, err = resolveBudget(budgetSources{prompt: true, stdin: strings.NewReader(" 12 \n"), promptOut: &out})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(12))
		Expect(out.String()).To(Equal(promptText))
	})

	It("uses the default budget when it may not prompt", func() {
		n, err := resolveBudget(budgetSources{})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(asciiedge.DefaultMaxChars))
	})

	It("treats an empty prompt answer as a usage error", func() {
		_, err := resolveBudget(budgetSources{prompt: true, stdin: strings.NewReader(""), promptOut: new(bytes.Buffer)})
		var ue *asciiedge.UsageError
		Expect(errors.As(err, &ue)).To(BeTrue())
		Expect(exitCode(err)).To(Equal(2))
	})
})
