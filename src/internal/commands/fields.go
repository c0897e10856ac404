package commands

import (
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rbac-console/admin-console/src/internal/console"
	"github.com/rbac-console/admin-console/src/internal/forms"
	"github.com/rbac-console/admin-console/src/internal/settings"
)

// FieldsCommand lists the form fields with their current values.
type FieldsCommand struct {
	fs      *flag.FlagSet
	ctx     *AppContext
	remote  *remote
	section string
	hidden  bool
}

func CreateFieldsCommand() *FieldsCommand {
	return &FieldsCommand{fs: flag.NewFlagSet("fields", flag.ContinueOnError)}
}

func (c *FieldsCommand) Name() string {
	return c.fs.Name()
}

func (c *FieldsCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.StringVar(&c.section, "section", "", "Only list fields of this section")
	c.fs.BoolVar(&c.hidden, "all", false, "Include settings that have no form field")
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

func (c *FieldsCommand) Run() error {
	ctx, cancel := c.remote.requestContext()
	defer cancel()

	ctrl := console.NewController(c.remote.client, c.remote.cfg.Console.NotificationsLimit)
	if _, err := ctrl.Load(ctx); err != nil {
		return err
	}
	fields, err := ctrl.Fields()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.ctx.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tKIND\tVALUE\tLABEL")
	for _, f := range fields {
		if f.Hidden && !c.hidden {
			continue
		}
		if c.section != "" && f.Section != c.section {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Path, f.Kind, displayValue(f), f.Label)
	}
	return tw.Flush()
}

func displayValue(f forms.BoundField) string {
	switch f.Kind {
	case settings.KindCheckbox:
		if f.Checked {
			return "true"
		}
		return "false"
	case settings.KindMultiSelect:
		return strings.Join(f.Selected, ",")
	case settings.KindPassword:
		if f.Value == "" {
			return ""
		}
		return "********"
	default:
		v := strings.ReplaceAll(f.Value, "\n", " ")
		if len(v) > 40 {
			v = v[:37] + "..."
		}
		return v
	}
}
