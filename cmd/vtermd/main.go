// Command vtermd is a demo host around the terminal engine: it spawns a
// shell under a pty and renders its state, or replays an asciinema-style
// recording through the engine. Both are ambient surfaces around the
// core engine, not part of it; they exist to exercise pkg/terminal,
// pkg/session and pkg/config end to end.
package main

import (
	"fmt"
	"os"

	"github.com/vibetunnel/vterm/cmd/vtermd/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
