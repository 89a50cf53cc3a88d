// Package commands defines the kamiya subcommands on top of the note service.
package commands

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/urfave/cli/v3"

	"github.com/starford/kamiya/internal/apperr"
	"github.com/starford/kamiya/internal/noteservice"
	"github.com/starford/kamiya/internal/term"
)

// DefaultExportFile is used by export and import when no path is given.
const DefaultExportFile = "kamiya_exported.yaml"

// Env is what a command needs at run time.
type Env struct {
	Service *noteservice.Service
	Out     *term.Printer
	Prompt  term.Prompter
}

// Resolver builds the Env for the running command. It is called once per
// invocation, after flags are parsed, so it can read root flags.
type Resolver func(ctx context.Context, cmd *cli.Command) (*Env, error)

type handler func(ctx context.Context, cmd *cli.Command, env *Env) error

func action(resolve Resolver, h handler) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		env, err := resolve(ctx, cmd)
		if err != nil {
			return err
		}
		return h(ctx, cmd, env)
	}
}

// ReportError prints a failed command's error. It is meant to be installed as
// the root command's ExitErrHandler.
func ReportError(_ context.Context, cmd *cli.Command, err error) {
	root := cmd.Root()
	term.New(root.Writer, root.ErrWriter).Fatal("%s", err)
}

// New returns every kamiya subcommand.
func New(resolve Resolver) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "take",
			Usage:     "Take a new note from text",
			ArgsUsage: "<content>",
			Flags: []cli.Flag{
				nameFlag("Name of the note (generated from the template if empty)"),
				descFlag(),
			},
			Action: action(resolve, take),
		},
		{
			Name:      "add",
			Usage:     "Add a note from the contents of a file",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{nameFlag("Name of the note (frontmatter name or file name if empty)")},
			Action:    action(resolve, add),
		},
		{
			Name:  "desc",
			Usage: "Set the description of a note",
			Flags: []cli.Flag{
				requiredNameFlag(),
				&cli.StringFlag{Name: "desc", Aliases: []string{"d"}, Usage: "Description text", Required: true},
			},
			Action: action(resolve, describe),
		},
		{
			Name:  "rename",
			Usage: "Rename a note",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "old", Aliases: []string{"o"}, Usage: "Current name", Required: true},
				&cli.StringFlag{Name: "new", Aliases: []string{"n"}, Usage: "New name", Required: true},
			},
			Action: action(resolve, rename),
		},
		{
			Name:      "editor",
			Usage:     "Show or set the editor used by edit",
			ArgsUsage: "[executable]",
			Action:    action(resolve, setEditor),
		},
		{
			Name:      "template",
			Usage:     "Show or set the template for generated note names",
			ArgsUsage: "[template containing &i]",
			Action:    action(resolve, setTemplate),
		},
		{
			Name:   "list",
			Usage:  "List all notes",
			Action: action(resolve, list),
		},
		{
			Name:      "search",
			Usage:     "Find notes whose name contains a pattern",
			ArgsUsage: "<pattern>",
			Action:    action(resolve, search),
		},
		{
			Name:  "save",
			Usage: "Write a note's content to a file",
			Flags: []cli.Flag{
				requiredNameFlag(),
				&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Target file (default: <name>.txt)"},
			},
			Action: action(resolve, save),
		},
		{
			Name:      "get",
			Usage:     "Print a note's content",
			ArgsUsage: "<name>",
			Action:    action(resolve, get),
		},
		{
			Name:      "edit",
			Usage:     "Edit a note in the external editor",
			ArgsUsage: "<name>",
			Action:    action(resolve, edit),
		},
		{
			Name:      "rm",
			Usage:     "Remove a note",
			ArgsUsage: "<name>",
			Action:    action(resolve, remove),
		},
		{
			Name:  "export",
			Usage: "Export the database to a file (.yaml, .toml or .json)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Target file", Value: DefaultExportFile},
			},
			Action: action(resolve, export),
		},
		{
			Name:  "import",
			Usage: "Import notes from an exported file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Source file", Value: DefaultExportFile},
				&cli.BoolFlag{Name: "replace", Aliases: []string{"r"}, Usage: "Replace notes that already exist"},
				&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "Ask before replacing each existing note"},
			},
			Action: action(resolve, importNotes),
		},
		{
			Name:   "db",
			Usage:  "Show information about the database file",
			Action: action(resolve, info),
		},
		{
			Name:      "copy",
			Usage:     "Copy a note's content to the clipboard",
			ArgsUsage: "<name>",
			Action:    action(resolve, copyNote),
		},
		{
			Name:   "insert",
			Usage:  "Create a note from the clipboard",
			Flags:  []cli.Flag{nameFlag("Name of the note (generated from the template if empty)")},
			Action: action(resolve, insert),
		},
	}
}

func nameFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: usage}
}

func requiredNameFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Name of the note", Required: true}
}

func descFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "desc", Aliases: []string{"d"}, Usage: "Description of the note"}
}

// arg returns the single positional argument or an error naming what is missing.
func arg(cmd *cli.Command, what string) (string, error) {
	switch cmd.NArg() {
	case 0:
		return "", fmt.Errorf("missing %s: %w", what, apperr.ErrInvalidInput)
	case 1:
		return cmd.Args().First(), nil
	default:
		return "", fmt.Errorf("expected one %s, got %d arguments: %w", what, cmd.NArg(), apperr.ErrInvalidInput)
	}
}

func take(ctx context.Context, cmd *cli.Command, env *Env) error {
	content, err := arg(cmd, "content")
	if err != nil {
		return err
	}
	note, err := env.Service.Take(ctx, content, cmd.String("name"), cmd.String("desc"))
	if err != nil {
		return err
	}
	env.Out.Success("Note %q saved", note.Name)
	return nil
}

func add(ctx context.Context, cmd *cli.Command, env *Env) error {
	file, err := arg(cmd, "file")
	if err != nil {
		return err
	}
	note, err := env.Service.Add(ctx, file, cmd.String("name"))
	if err != nil {
		return err
	}
	env.Out.Success("Note %q added from %s", note.Name, file)
	return nil
}

func describe(ctx context.Context, cmd *cli.Command, env *Env) error {
	name := cmd.String("name")
	if err := env.Service.Describe(ctx, name, cmd.String("desc")); err != nil {
		return err
	}
	env.Out.Success("Description of %q updated", name)
	return nil
}

func rename(ctx context.Context, cmd *cli.Command, env *Env) error {
	oldName, newName := cmd.String("old"), cmd.String("new")
	if err := env.Service.Rename(ctx, oldName, newName); err != nil {
		return err
	}
	env.Out.Success("Note %q renamed to %q", oldName, newName)
	return nil
}

func setEditor(ctx context.Context, cmd *cli.Command, env *Env) error {
	if cmd.NArg() == 0 {
		opts, err := env.Service.Options(ctx)
		if err != nil {
			return err
		}
		if opts.Editor == "" {
			return fmt.Errorf("no editor set: %w", apperr.ErrInvalidInput)
		}
		env.Out.Data("Editor", opts.Editor)
		return nil
	}
	editor, err := arg(cmd, "editor")
	if err != nil {
		return err
	}
	if err := env.Service.SetEditor(ctx, editor); err != nil {
		return err
	}
	env.Out.Success("Editor set to %s", editor)
	return nil
}

func setTemplate(ctx context.Context, cmd *cli.Command, env *Env) error {
	if cmd.NArg() == 0 {
		opts, err := env.Service.Options(ctx)
		if err != nil {
			return err
		}
		env.Out.Data("Template", opts.NameTemplate)
		return nil
	}
	tpl, err := arg(cmd, "template")
	if err != nil {
		return err
	}
	if err := env.Service.SetTemplate(ctx, tpl); err != nil {
		return err
	}
	env.Out.Success("Template set to %s", tpl)
	return nil
}

func list(ctx context.Context, _ *cli.Command, env *Env) error {
	notes, err := env.Service.List(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		env.Out.Hint("Use `kamiya take <content>` to create one.")
		return fmt.Errorf("no notes yet: %w", apperr.ErrNotFound)
	}
	env.Out.Title("Notes (%d)", len(notes))
	for _, n := range notes {
		env.Out.ListItem(n.Name, n.Description)
	}
	return nil
}

func search(ctx context.Context, cmd *cli.Command, env *Env) error {
	pattern, err := arg(cmd, "pattern")
	if err != nil {
		return err
	}
	notes, err := env.Service.Search(ctx, pattern)
	if err != nil {
		return err
	}
	env.Out.Title("Found %d notes", len(notes))
	for _, n := range notes {
		env.Out.Match(n.Name, pattern)
	}
	return nil
}

func save(ctx context.Context, cmd *cli.Command, env *Env) error {
	name := cmd.String("name")
	path, err := env.Service.SaveToFile(ctx, name, cmd.String("file"))
	if err != nil {
		return err
	}
	env.Out.Success("Note %q written to %s", name, path)
	return nil
}

func get(ctx context.Context, cmd *cli.Command, env *Env) error {
	name, err := arg(cmd, "note name")
	if err != nil {
		return err
	}
	note, err := env.Service.Get(ctx, name)
	if err != nil {
		return err
	}
	env.Out.Plain(strings.TrimRightFunc(note.Content, unicode.IsSpace))
	return nil
}

func edit(ctx context.Context, cmd *cli.Command, env *Env) error {
	name, err := arg(cmd, "note name")
	if err != nil {
		return err
	}
	env.Out.Work("Waiting for the editor to close...")
	if err := env.Service.Edit(ctx, name); err != nil {
		return err
	}
	env.Out.Success("Note %q updated", name)
	return nil
}

func remove(ctx context.Context, cmd *cli.Command, env *Env) error {
	name, err := arg(cmd, "note name")
	if err != nil {
		return err
	}
	if err := env.Service.Remove(ctx, name); err != nil {
		return err
	}
	env.Out.Success("Note %q removed", name)
	return nil
}

func export(ctx context.Context, cmd *cli.Command, env *Env) error {
	path := cmd.String("path")
	if err := env.Service.Export(ctx, path); err != nil {
		return err
	}
	env.Out.Success("Database exported to %s", path)
	return nil
}

func importNotes(ctx context.Context, cmd *cli.Command, env *Env) error {
	opts := noteservice.ImportOptions{Policy: noteservice.ConflictSkip}
	switch replace, interactive := cmd.Bool("replace"), cmd.Bool("interactive"); {
	case replace && interactive:
		return fmt.Errorf("--replace and --interactive cannot be used together: %w", apperr.ErrInvalidInput)
	case replace:
		opts.Policy = noteservice.ConflictReplace
	case interactive:
		opts.Policy = noteservice.ConflictAsk
		opts.Confirm = func(name string) bool {
			return env.Prompt.AskYesNo(fmt.Sprintf("Note %q already exists. Replace it?", name), true)
		}
	}

	path := cmd.String("file")
	env.Out.Work("Importing %s", path)
	report, err := env.Service.Import(ctx, path, opts)
	if err != nil {
		return err
	}
	for _, name := range report.Skipped {
		env.Out.Warn("Note %q already exists, skipped", name)
	}
	for _, name := range report.Replaced {
		env.Out.Info("Note %q replaced", name)
	}
	env.Out.Success("Imported %d notes (%d replaced, %d skipped)",
		len(report.Added)+len(report.Replaced), len(report.Replaced), len(report.Skipped))
	if len(report.Skipped) > 0 && opts.Policy == noteservice.ConflictSkip {
		env.Out.Hint("Use --replace or --interactive to overwrite existing notes.")
	}
	return nil
}

func info(ctx context.Context, _ *cli.Command, env *Env) error {
	st, err := env.Service.Info(ctx)
	if err != nil {
		return err
	}
	env.Out.Title("Database")
	env.Out.Data("Path", st.Path)
	env.Out.Data("Size", fmt.Sprintf("%d bytes", st.Size))
	env.Out.Data("Notes", fmt.Sprintf("%d", st.Notes))
	env.Out.Data("SHA-256", st.Checksum)
	return nil
}

func copyNote(ctx context.Context, cmd *cli.Command, env *Env) error {
	name, err := arg(cmd, "note name")
	if err != nil {
		return err
	}
	if err := env.Service.Copy(ctx, name); err != nil {
		return err
	}
	env.Out.Success("Note %q copied to the clipboard", name)
	return nil
}

func insert(ctx context.Context, cmd *cli.Command, env *Env) error {
	note, err := env.Service.Insert(ctx, cmd.String("name"))
	if err != nil {
		return err
	}
	env.Out.Success("Note %q created from the clipboard", note.Name)
	return nil
}
