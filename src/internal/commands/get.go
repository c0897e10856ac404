package commands

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rbac-console/admin-console/src/internal/settings"
)

// Output formats accepted by get.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// GetCommand prints the settings document or one part of it.
type GetCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote
	format string
	path   settings.Path
}

func CreateGetCommand() *GetCommand {
	return &GetCommand{fs: flag.NewFlagSet("get", flag.ContinueOnError)}
}

func (c *GetCommand) Name() string {
	return c.fs.Name()
}

func (c *GetCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.StringVar(&c.format, "format", FormatJSON, "Output format: json, yaml or toml")
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	switch c.format {
	case FormatJSON, FormatYAML, FormatTOML:
	default:
		return fmt.Errorf("unknown format %q", c.format)
	}

	if c.fs.NArg() > 1 {
		return fmt.Errorf("get takes at most one path")
	}
	if c.fs.NArg() == 1 {
		p, err := settings.ParsePath(c.fs.Arg(0))
		if err != nil {
			return err
		}
		c.path = p
	}

	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

func (c *GetCommand) Run() error {
	ctx, cancel := c.remote.requestContext()
	defer cancel()

	tree, err := c.remote.client.FetchSettings(ctx)
	if err != nil {
		return err
	}

	var value any = tree
	if c.path != nil {
		v, ok := tree.Get(c.path)
		if !ok {
			return fmt.Errorf("no setting at %s", c.path)
		}
		value = v
	}

	out, err := encodeValue(value, c.format)
	if err != nil {
		return err
	}
	_, err = c.ctx.Stdout.Write(out)
	return err
}

// encodeValue renders a tree or leaf in the requested format. TOML needs a
// table at the top level, so leaves are printed bare.
func encodeValue(value any, format string) ([]byte, error) {
	plain := toPlain(value)

	switch format {
	case FormatYAML:
		return yaml.Marshal(plain)
	case FormatTOML:
		if _, ok := plain.(map[string]any); !ok {
			return []byte(fmt.Sprintln(plain)), nil
		}
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(plain); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		out, err := json.MarshalIndent(plain, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}

// toPlain converts Tree sections into plain maps so every encoder treats
// them alike.
func toPlain(value any) any {
	switch v := value.(type) {
	case settings.Tree:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = toPlain(child)
		}
		return out
	default:
		return v
	}
}
