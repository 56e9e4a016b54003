package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/aretw0/dtm"
	"github.com/aretw0/dtm/internal/logging"
	"github.com/aretw0/dtm/internal/presentation/tui"
	"github.com/aretw0/dtm/pkg/domain"
)

// Prompt is printed before every command when the shell is interactive.
const Prompt = "dtm> "

const helpText = `# dtm shell

| Command | Effect |
|---|---|
| ` + "`insert <file>`" + ` | load a machine from a program file |
| ` + "`run [word]`" + ` | simulate the word and print the output tape |
| ` + "`check [word]`" + ` | print accept or reject |
| ` + "`print`" + ` | list the transitions of the loaded machine |
| ` + "`help`" + ` | show this table |
| ` + "`quit`" + ` | leave the shell |

Commands may be abbreviated to their first letter.
`

// Shell is the line-oriented front end. It reads one command per line and
// keeps the most recently inserted machine.
type Shell struct {
	in     io.Reader
	out    io.Writer
	config Config

	interactive bool
	render      func(string) (string, error)
	style       *tui.Styler

	engine *dtm.Engine
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithInteractive enables the prompt and the banner.
func WithInteractive(on bool) ShellOption {
	return func(s *Shell) {
		s.interactive = on
	}
}

// WithRenderer sets the markdown renderer used by help.
func WithRenderer(render func(string) (string, error)) ShellOption {
	return func(s *Shell) {
		s.render = render
	}
}

// NewShell creates a shell reading commands from in and writing to out.
func NewShell(in io.Reader, out io.Writer, cfg Config, opts ...ShellOption) *Shell {
	s := &Shell{
		in:     in,
		out:    out,
		config: cfg,
		render: tui.PlainRenderer,
		style:  tui.NewStyler(out),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if s.interactive {
		tui.PrintBanner(s.out, dtm.Version)
	}

	scanner := bufio.NewScanner(s.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.interactive {
			fmt.Fprint(s.out, s.style.Prompt(Prompt))
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			return nil
		}
		if quit := s.Execute(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// Execute runs a single command line and reports whether it asked to quit.
// Commands are selected by their first letter, ignoring case.
func (s *Shell) Execute(ctx context.Context, line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	s.logger().Debug("command", "line", line)

	switch strings.ToLower(parts[0])[0] {
	case 'q':
		return true
	case 'i':
		s.insert(parts[1:])
	case 'r':
		s.run(ctx, parts[1:])
	case 'c':
		s.check(ctx, parts[1:])
	case 'p':
		s.print()
	case 'h':
		s.help()
	default:
		s.error("Unknown command.")
	}
	return false
}

func (s *Shell) insert(args []string) {
	if len(args) == 0 {
		s.error("Wrong amount of input!")
		return
	}

	if err := s.Load(args[0]); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.error("No file found!")
		case errors.Is(err, domain.ErrMalformedProgram), errors.Is(err, domain.ErrInvalidSymbol),
			errors.Is(err, domain.ErrUnknownState), errors.Is(err, domain.ErrTapeArity),
			errors.Is(err, domain.ErrNonDeterministic):
			s.error("Parsing not possible! " + err.Error())
		default:
			s.error(err.Error())
		}
	}
}

// Load replaces the current machine with the program file at path. On error
// the previous machine stays loaded.
func (s *Shell) Load(path string) error {
	eng, err := OpenEngine(path, s.config)
	if err != nil {
		s.logger().Warn("insert failed", "path", path, "err", err)
		return err
	}
	s.engine = eng
	s.logger().Info("machine loaded", "program", eng.Name, "states", eng.Program().States)
	return nil
}

// word returns the optional word argument. Extra arguments are ignored.
func word(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func (s *Shell) run(ctx context.Context, args []string) {
	if s.engine == nil {
		s.error("No machine loaded!")
		return
	}
	output, err := s.engine.Simulate(ctx, word(args))
	if err != nil {
		s.runError(err)
		return
	}
	fmt.Fprintln(s.out, output)
}

func (s *Shell) check(ctx context.Context, args []string) {
	if s.engine == nil {
		s.error("No machine loaded!")
		return
	}
	w := word(args)
	if w == "" {
		fmt.Fprintln(s.out, s.style.Verdict(true))
		return
	}

	accepted, err := s.engine.Check(ctx, w)
	if err != nil {
		s.runError(err)
		return
	}
	fmt.Fprintln(s.out, s.style.Verdict(accepted))
}

func (s *Shell) runError(err error) {
	if errors.Is(err, domain.ErrInvalidWord) {
		s.error("Not matching the alphabet!")
		return
	}
	s.error(err.Error())
}

func (s *Shell) print() {
	if s.engine == nil {
		fmt.Fprintln(s.out)
		return
	}
	fmt.Fprintln(s.out, s.engine.Describe())
}

func (s *Shell) help() {
	text, err := s.render(helpText)
	if err != nil {
		text = helpText
	}
	fmt.Fprint(s.out, text)
}

func (s *Shell) error(msg string) {
	fmt.Fprintln(s.out, s.style.Error(msg))
}

func (s *Shell) logger() *slog.Logger {
	if s.config.Logger == nil {
		return logging.NewNop()
	}
	return s.config.Logger
}
