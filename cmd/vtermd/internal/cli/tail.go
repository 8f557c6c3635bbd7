package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vibetunnel/vterm/pkg/session"
)

func newTailCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "tail <cast-file>",
		Short: "Replay an asciinema-style recording through the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tailCast(args[0], follow)
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "keep watching the file for appended frames")
	return cmd
}

// tailCast feeds an asciinema v2 recording through a fresh session and
// prints its visible lines. Each frame after the header is a JSON array
// [timestamp, "o"|"r", data]; "o" carries raw output bytes, "r" a
// "WIDTHxHEIGHT" resize.
func tailCast(path string, follow bool) error {
	cfg, err := loadOptions()
	if err != nil {
		return err
	}

	registry := session.NewRegistry()
	id := uuid.NewString()
	if err := registry.CreateBuffer(id, cfg.Options(), nil); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	pos, err := applyFrames(f, registry, id)
	if err != nil {
		return err
	}
	printVisible(registry, id)

	if !follow {
		return nil
	}
	return watchAppends(path, pos, registry, id)
}

func applyFrames(r io.Reader, registry *session.Registry, id string) (int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var pos int64
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		pos += int64(len(line)) + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			first = false
			if strings.HasPrefix(strings.TrimSpace(line), "{") {
				continue // asciinema v2 header object, not a frame
			}
		}
		if err := applyFrame(line, registry, id); err != nil {
			continue // malformed frame: skip, same tolerance as parse anomalies in the engine
		}
	}
	return pos, scanner.Err()
}

func applyFrame(line string, registry *session.Registry, id string) error {
	var frame [3]json.RawMessage
	if err := json.Unmarshal([]byte(line), &frame); err != nil {
		return err
	}
	var kind string
	if err := json.Unmarshal(frame[1], &kind); err != nil {
		return err
	}
	var data string
	if err := json.Unmarshal(frame[2], &data); err != nil {
		return err
	}

	switch kind {
	case "o":
		return registry.ProcessOutput(id, []byte(data))
	case "r":
		w, h, ok := parseResize(data)
		if ok {
			return registry.Resize(id, w, h)
		}
	}
	return nil
}

func parseResize(s string) (int, int, bool) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return w, h, true
}

func printVisible(registry *session.Registry, id string) {
	lines, err := registry.GetVisibleLines(id)
	if err != nil {
		return
	}
	for _, l := range lines {
		fmt.Println(l)
	}
}

// watchAppends follows path for new frames via fsnotify, applying each
// newly-written chunk and reprinting the visible grid.
func watchAppends(path string, pos int64, registry *session.Registry, id string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f, err := os.Open(path)
			if err != nil {
				continue
			}
			if _, err := f.Seek(pos, io.SeekStart); err != nil {
				f.Close()
				continue
			}
			newPos, err := applyFrames(f, registry, id)
			f.Close()
			if err != nil {
				continue
			}
			pos += newPos
			printVisible(registry, id)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
