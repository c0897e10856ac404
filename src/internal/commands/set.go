package commands

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/rbac-console/admin-console/src/internal/console"
	"github.com/rbac-console/admin-console/src/internal/forms"
	"github.com/rbac-console/admin-console/src/internal/settings"
)

// SetCommand edits settings by path and saves the result through the same
// gather, validate and save path the console uses.
type SetCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote
	dryRun bool
	edits  []console.FieldEdit
}

func CreateSetCommand() *SetCommand {
	return &SetCommand{fs: flag.NewFlagSet("set", flag.ContinueOnError)}
}

func (c *SetCommand) Name() string {
	return c.fs.Name()
}

func (c *SetCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.BoolVar(&c.dryRun, "dry-run", false, "Show the changes without saving")
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.fs.NArg() == 0 {
		return fmt.Errorf("usage: set [-dry-run] path=value [path=value...]")
	}

	edits, err := parseAssignments(c.fs.Args())
	if err != nil {
		return err
	}
	c.edits = edits

	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

// parseAssignments turns path=value arguments into form edits. Checkbox
// values are parsed as booleans and multi-selects are comma separated.
func parseAssignments(args []string) ([]console.FieldEdit, error) {
	edits := make([]console.FieldEdit, 0, len(args))
	for _, arg := range args {
		path, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not in path=value form", arg)
		}
		field, known := forms.Lookup(path)
		if !known {
			return nil, fmt.Errorf("unknown setting %s", path)
		}

		edit := console.FieldEdit{Path: path}
		switch field.Kind {
		case settings.KindCheckbox:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%s expects true or false, got %q", path, value)
			}
			edit.Checked = b
		case settings.KindMultiSelect:
			for _, v := range strings.Split(value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					edit.Selected = append(edit.Selected, v)
				}
			}
		default:
			edit.Value = value
		}
		edits = append(edits, edit)
	}
	return edits, nil
}

func (c *SetCommand) Run() error {
	ctx, cancel := c.remote.requestContext()
	defer cancel()

	ctrl := console.NewController(c.remote.client, c.remote.cfg.Console.NotificationsLimit)
	if _, err := ctrl.Load(ctx); err != nil {
		return err
	}

	state, err := ctrl.Edit(c.edits)
	if err != nil {
		return err
	}
	if len(state.Errors) > 0 {
		return fmt.Errorf("invalid input: %w", state.Errors)
	}

	printChanges(c.ctx.Stdout, state.Changes)
	if len(state.Changes) == 0 || c.dryRun {
		return nil
	}

	if _, err := ctrl.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.ctx.Stdout, "Settings saved successfully!")
	return nil
}

var (
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	modifiedColor = color.New(color.FgYellow)
)

func printChanges(w io.Writer, changes []settings.Change) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "No changes")
		return
	}
	for _, ch := range changes {
		switch ch.Type {
		case settings.ChangeAdded:
			addedColor.Fprintf(w, "+ %s = %v\n", ch.Path, ch.To)
		case settings.ChangeRemoved:
			removedColor.Fprintf(w, "- %s (was %v)\n", ch.Path, ch.From)
		default:
			modifiedColor.Fprintf(w, "~ %s: %v -> %v\n", ch.Path, ch.From, ch.To)
		}
	}
}
