package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/pedde-lisp/r5scheme/internal/exec"
)

// Watch re-loads file into ctx's environment every time it changes on disk,
// writing a short notice to out before each re-run, until stop is closed.
// The teacher declares fsnotify as a direct dependency but no retrieved
// source file exercises it; this follows fsnotify's own canonical
// NewWatcher/Add/select-on-Events usage.
func Watch(ctx *exec.Context, file string, out io.Writer, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(file); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	reload := func() {
		src, rerr := os.ReadFile(file)
		if rerr != nil {
			fmt.Fprintf(out, "watch: reading %s: %v\n", file, rerr)
			return
		}
		fmt.Fprintf(out, "watch: reloading %s\n", file)
		if err := RunFile(ctx, string(src), file); err != nil {
			ctx.EmitOnError(ctx, err)
		}
	}

	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watch: %v\n", werr)
		}
	}
}
