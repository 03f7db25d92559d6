package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lml/internal/config"
	"github.com/standardbeagle/lml/internal/debug"
	"github.com/standardbeagle/lml/internal/display"
	"github.com/standardbeagle/lml/internal/msgtoken"
	"github.com/standardbeagle/lml/internal/scan"
	"github.com/standardbeagle/lml/internal/watch"
	"github.com/standardbeagle/lml/pkg/pathutil"
)

func locateCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: lml <message> [directory]")
	}
	if c.Bool("watch") && c.Bool("json") {
		return errors.New("--watch cannot be combined with --json")
	}
	if c.Bool("watch") && c.Bool("explain") {
		return errors.New("--watch cannot be combined with --explain")
	}

	message := c.Args().Get(0)
	dirArg := c.Args().Get(1)
	if dirArg == "" {
		dirArg = "."
	}
	root, err := filepath.Abs(dirArg)
	if err != nil {
		return fmt.Errorf("failed to resolve directory %q: %w", dirArg, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return cli.Exit(fmt.Sprintf("Error: %s is not a directory", dirArg), 1)
	}

	cfg, err := loadConfigWithOverrides(c, root)
	if err != nil {
		return err
	}

	before, after, given := contextWindow(c, cfg)
	opts := display.Options{
		LineNumbers:  cfg.Display.LineNumbers,
		Before:       before,
		After:        after,
		ContextGiven: given,
		WithFilename: c.Bool("with-filename"),
		Color:        resolveColor(cfg.Display.Color),
	}

	debug.LogScan("locate %q in %s (min_score=%.1f)\n", message, root, cfg.Match.MinScore)

	if c.Bool("explain") {
		return explainRun(cfg, message, root, opts)
	}
	if c.Bool("watch") {
		return watchRun(cfg, message, root, opts)
	}

	q := msgtoken.NewQuery(message, cfg.Match.MinScore)
	result, err := scan.New(cfg).Run(context.Background(), q, root)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	result.Candidates = pathutil.ToRelativeCandidates(result.Candidates, root)

	if c.Bool("json") {
		return pipeExit(display.WriteJSON(os.Stdout, display.NewEnvelope(message, root, result)))
	}

	p := display.NewPresenter(os.Stdout, q, root, opts)
	return pipeExit(p.Present(result.Candidates))
}

// explainRun scans with the threshold lowered to zero so rejected literals
// are still in hand afterward, presents the survivors, then diagnoses the
// near misses token by token.
func explainRun(cfg *config.Config, message, root string, opts display.Options) error {
	engineCfg := *cfg
	engineCfg.Match.MinScore = 0

	q := msgtoken.NewQuery(message, 0)
	result, err := scan.New(&engineCfg).Run(context.Background(), q, root)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	kept, missed := partitionByScore(result.Candidates, cfg.Match.MinScore)
	kept = pathutil.ToRelativeCandidates(kept, root)
	missed = pathutil.ToRelativeCandidates(missed, root)

	p := display.NewPresenter(os.Stdout, q, root, opts)
	if err := p.Present(kept); err != nil {
		return pipeExit(err)
	}

	if len(missed) > 0 {
		if _, err := fmt.Fprintf(os.Stdout, "\nNear misses:\n"); err != nil {
			return pipeExit(err)
		}
		if err := display.RenderExplanations(os.Stdout, q, missed); err != nil {
			return pipeExit(err)
		}
	}
	return nil
}

// watchRun performs the initial scan, prints it, then re-renders the result
// set on every file change until interrupted.
func watchRun(cfg *config.Config, message, root string, opts display.Options) error {
	q := msgtoken.NewQuery(message, cfg.Match.MinScore)

	result, err := scan.New(cfg).Run(context.Background(), q, root)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if err := presentBatch(q, root, opts, result.Candidates); err != nil {
		return pipeExit(err)
	}

	w, err := watch.New(cfg, q, root)
	if err != nil {
		return err
	}
	w.Seed(result)
	w.SetOnUpdate(func(candidates []scan.Candidate) {
		fmt.Printf("\n--- %s ---\n", time.Now().Format("15:04:05"))
		if err := presentBatch(q, root, opts, candidates); err != nil {
			debug.LogWatch("render error: %v\n", err)
		}
	})
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", root)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	return nil
}

// presentBatch renders one set of results with root-relative paths. Each
// batch gets a fresh presenter so files edited since the last render are
// reread rather than served from cache.
func presentBatch(q *msgtoken.Query, root string, opts display.Options, candidates []scan.Candidate) error {
	rel := pathutil.ToRelativeCandidates(candidates, root)
	p := display.NewPresenter(os.Stdout, q, root, opts)
	return p.Present(rel)
}

func contextWindow(c *cli.Context, cfg *config.Config) (before, after int, given bool) {
	return resolveContext(
		c.Int("before-context"),
		c.Int("after-context"),
		c.Int("context"),
		c.IsSet("context"),
		cfg.Display.Context,
	)
}

// resolveContext merges the grep-style context flags. The combined flag
// fills whichever side is still zero, and asking for context (even zero
// lines of it) turns the block separators on. When no flag was given at
// all, a nonzero configured window acts like the combined flag.
func resolveContext(before, after, combined int, combinedSet bool, cfgContext int) (int, int, bool) {
	given := before != 0 || after != 0 || combinedSet
	if combinedSet {
		if before == 0 {
			before = combined
		}
		if after == 0 {
			after = combined
		}
		return before, after, given
	}
	if !given && cfgContext > 0 {
		return cfgContext, cfgContext, true
	}
	return before, after, given
}

// resolveColor maps a configured color mode onto this process's stdout.
func resolveColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

// partitionByScore splits candidates into those clearing the threshold and
// the near misses worth diagnosing. With a zero threshold every candidate
// clears it, so the zero-scored leftovers become the near misses instead.
func partitionByScore(candidates []scan.Candidate, minScore float64) (kept, missed []scan.Candidate) {
	for _, cand := range candidates {
		switch {
		case minScore > 0 && cand.Score >= minScore:
			kept = append(kept, cand)
		case minScore <= 0 && cand.Score > 0:
			kept = append(kept, cand)
		default:
			missed = append(missed, cand)
		}
	}
	return kept, missed
}

// pipeExit converts EPIPE into a clean exit so `lml ... | head` works.
func pipeExit(err error) error {
	if err == nil || errors.Is(err, syscall.EPIPE) {
		return nil
	}
	return err
}
