package cli

import (
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vibetunnel/vterm/pkg/api"
	"github.com/vibetunnel/vterm/pkg/config"
	"github.com/vibetunnel/vterm/pkg/session"
)

func newRunCmd() *cobra.Command {
	var shell string
	var addr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Spawn a shell under a pty and feed its output into the engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(shell, addr)
		},
	}
	cmd.Flags().StringVar(&shell, "shell", defaultShell(), "shell to spawn")
	cmd.Flags().StringVar(&addr, "addr", "", "if set, serve the HTTP/WS bridge on this address (e.g. :7681)")
	return cmd
}

func defaultShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "/bin/sh"
}

func loadOptions() (config.Config, error) {
	if configPath == "" {
		return config.Defaults(), nil
	}
	return config.Load(configPath)
}

func runShell(shell, addr string) error {
	cfg, err := loadOptions()
	if err != nil {
		return err
	}

	c := exec.Command(shell)
	ptmx, err := pty.Start(c)
	if err != nil {
		return err
	}
	defer ptmx.Close()

	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(cfg.Cols), Rows: uint16(cfg.Rows)}); err != nil {
		log.Printf("[run] Setsize failed: %v", err)
	}

	registry := session.NewRegistry()
	id := uuid.NewString()
	bridge := api.NewBridge(registry)
	if err := bridge.CreateWatchedBuffer(id, cfg.Options()); err != nil {
		return err
	}

	if addr != "" {
		srv := api.NewServer(bridge)
		go func() {
			log.Printf("[run] serving bridge on %s (session %s)", addr, id)
			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Printf("[run] http server stopped: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		for range sigCh {
			w, h, err := term.GetSize(int(os.Stdin.Fd()))
			if err != nil {
				continue
			}
			pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(w), Rows: uint16(h)})
			registry.Resize(id, w, h)
		}
	}()
	sigCh <- syscall.SIGWINCH // sync size on startup

	stdinFd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		return err
	}
	defer term.Restore(stdinFd, oldState)

	go io.Copy(ptmx, os.Stdin)

	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			registry.ProcessOutput(id, buf[:n])
			os.Stdout.Write(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("[run] pty read error: %v", err)
			}
			return nil
		}
	}
}
