package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rbac-console/admin-console/src/frontend"
	"github.com/rbac-console/admin-console/src/internal/api"
	"github.com/rbac-console/admin-console/src/internal/console"
	"github.com/rbac-console/admin-console/src/internal/log"
)

// ServeCommand runs the console server.
type ServeCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote

	listenAddr string
	noLoad     bool
}

func CreateServeCommand() *ServeCommand {
	return &ServeCommand{fs: flag.NewFlagSet("serve", flag.ContinueOnError)}
}

func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.StringVar(&c.listenAddr, "listen", "", "Override console.listen_addr")
	c.fs.BoolVar(&c.noLoad, "no-load", false, "Do not load settings on startup")
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r

	if c.listenAddr == "" {
		c.listenAddr = r.cfg.Console.ListenAddr
	}
	return nil
}

func (c *ServeCommand) Run() error {
	cfg := c.remote.cfg

	ui, err := frontend.GetHTTPFileSystem(cfg.GetAbsUIDir())
	if err != nil {
		return fmt.Errorf("failed to open UI files: %w", err)
	}

	ctrl := console.NewController(c.remote.client, cfg.Console.NotificationsLimit)
	if !c.noLoad {
		loadCtx, cancel := c.remote.requestContext()
		if _, err := ctrl.Load(loadCtx); err != nil {
			log.Warnf("Initial settings load failed: %v", err)
		}
		cancel()
	}

	router := api.NewRouter(ctrl, ui)

	log.Infof("Remote API: %s", cfg.API.BaseURL)
	log.Infof("Access restricted to loopback and private networks")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supervisor := NewSupervisor(SupervisorConfig{Name: "console server", MaxRestarts: 5}, func(ctx context.Context) error {
		server := api.NewServer(c.listenAddr, router)
		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			if err == nil {
				err = fmt.Errorf("server exited unexpectedly")
			}
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Stop(shutdownCtx); err != nil {
				log.Errorf("Error during server shutdown: %v", err)
			}
			return nil
		}
	})

	if err := supervisor.Run(ctx); err != nil {
		return err
	}
	log.Infof("Server stopped gracefully")
	return nil
}
