package commands

import (
	"bufio"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/rbac-console/admin-console/src/internal/credentials"
	"github.com/rbac-console/admin-console/src/internal/log"
)

// LoginCommand exchanges a username and password for a bearer token and
// stores it in the credentials file.
type LoginCommand struct {
	fs       *flag.FlagSet
	ctx      *AppContext
	remote   *remote
	username string
}

func CreateLoginCommand() *LoginCommand {
	return &LoginCommand{fs: flag.NewFlagSet("login", flag.ContinueOnError)}
}

func (c *LoginCommand) Name() string {
	return c.fs.Name()
}

func (c *LoginCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.StringVar(&c.username, "username", "", "Account name (required); the password is read from stdin")
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(c.username) == "" {
		return fmt.Errorf("-username is required")
	}

	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

func (c *LoginCommand) Run() error {
	password, err := readLine(c.ctx)
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("empty password on stdin")
	}

	ctx, cancel := c.remote.requestContext()
	defer cancel()

	token, err := c.remote.client.Login(ctx, c.username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := c.remote.store.Save(credentials.Credentials{Token: token.AccessToken, Username: c.username}); err != nil {
		return err
	}
	log.Debugf("Token stored in %s", c.remote.store.Path())

	fmt.Fprintf(c.ctx.Stdout, "Logged in as %s\n", c.username)
	if info, ok := credentials.Inspect(token.AccessToken); ok && !info.ExpiresAt.IsZero() {
		fmt.Fprintf(c.ctx.Stdout, "Token expires %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func readLine(ctx *AppContext) (string, error) {
	if ctx.Stdin == nil {
		return "", nil
	}
	scanner := bufio.NewScanner(ctx.Stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r\n"), nil
	}
	return "", scanner.Err()
}

// LogoutCommand forgets the stored token.
type LogoutCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote
}

func CreateLogoutCommand() *LogoutCommand {
	return &LogoutCommand{fs: flag.NewFlagSet("logout", flag.ContinueOnError)}
}

func (c *LogoutCommand) Name() string {
	return c.fs.Name()
}

func (c *LogoutCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

func (c *LogoutCommand) Run() error {
	user := c.remote.store.Username()
	if err := c.remote.store.Clear(); err != nil {
		return err
	}
	if user != "" {
		fmt.Fprintf(c.ctx.Stdout, "Logged out %s\n", user)
	} else {
		fmt.Fprintln(c.ctx.Stdout, "Logged out")
	}
	return nil
}
