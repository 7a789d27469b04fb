package smt

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kinduct/kinduct/pkg/trans"
)

// Result is the outcome of a check-sat request.
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	return "unknown"
}

// DefaultCommand is the solver invoked when no command is configured.
const DefaultCommand = "z3"

// Config describes how solver sessions are created.
type Config struct {
	// Command is a shell-style command string for the solver binary.
	// `-in` is appended so the solver reads requests from stdin.
	Command string
	// LogDir, when non-empty, receives one `<session>.smt2` file per
	// session mirroring every line sent to the solver.
	LogDir string
	// Logger receives session diagnostics. Defaults to the standard
	// logrus logger.
	Logger *logrus.Logger
}

// Session is one interactive solver child process. It is single-threaded:
// one request is fully written and its response fully consumed before the
// next request is issued. Concurrent use is undefined.
type Session struct {
	name   string
	proc   *exec.Cmd
	stdin  io.WriteCloser
	out    *bufio.Reader
	stderr *bytes.Buffer
	log    *os.File
	frames int
	closed bool
	logger *logrus.Entry
}

// NewSession spawns the configured solver and primes it for model
// production. The session is torn down when ctx is cancelled, at the latest.
func NewSession(ctx context.Context, cfg Config, name string) (*Session, error) {
	command := cfg.Command
	if command == "" {
		command = DefaultCommand
	}
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}
	if len(argv) == 0 {
		return nil, &SpawnError{Command: command, Err: errors.New("empty solver command")}
	}
	argv = append(argv, "-in")

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	proc := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stderr := &bytes.Buffer{}
	proc.Stderr = stderr
	stdin, err := proc.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}
	stdout, err := proc.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}

	var logFile *os.File
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "while creating SMT log directory %q", cfg.LogDir)
		}
		path := filepath.Join(cfg.LogDir, name+".smt2")
		logFile, err = os.Create(path)
		if err != nil {
			return nil, errors.Wrapf(err, "while opening SMT log file %q", path)
		}
	}

	if err := proc.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, &SpawnError{Command: command, Err: err}
	}

	s := &Session{
		name:   name,
		proc:   proc,
		stdin:  stdin,
		out:    bufio.NewReader(stdout),
		stderr: stderr,
		log:    logFile,
		logger: logger.WithField("session", name),
	}
	s.logger.WithField("command", strings.Join(argv, " ")).Debug("solver session started")

	if err := s.SetOption(":print-success", "false"); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.SetOption(":produce-models", "true"); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// newSessionIO wires a session over arbitrary endpoints, for tests.
func newSessionIO(name string, in io.WriteCloser, out io.Reader) *Session {
	return &Session{
		name:   name,
		stdin:  in,
		out:    bufio.NewReader(out),
		stderr: &bytes.Buffer{},
		logger: logrus.StandardLogger().WithField("session", name),
	}
}

func (s *Session) writeLine(line string) error {
	if s.closed {
		return ErrClosed
	}
	if s.log != nil {
		// Log write failures must not interrupt the solver dialogue.
		if _, err := io.WriteString(s.log, line+"\n"); err != nil {
			s.logger.WithError(err).Warn("could not append to SMT log")
			s.log.Close()
			s.log = nil
		}
	}
	if _, err := io.WriteString(s.stdin, line+"\n"); err != nil {
		return errors.Wrapf(err, "while sending %q to the solver", line)
	}
	return nil
}

func (s *Session) readLine() (string, error) {
	for {
		line, err := s.out.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			msg := "solver closed its output"
			if errText := strings.TrimSpace(s.stderr.String()); errText != "" {
				msg += ": " + errText
			}
			return "", protocolErrorf("%s", msg)
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}

// SetOption emits a set-option request.
func (s *Session) SetOption(name, value string) error {
	return s.writeLine("(set-option " + name + " " + value + ")")
}

// SetLogic emits a set-logic request.
func (s *Session) SetLogic(logic string) error {
	return s.writeLine("(set-logic " + logic + ")")
}

// Declare declares the state variable id at a step index.
func (s *Session) Declare(id string, sort trans.Sort, step int) error {
	return s.writeLine("(declare-const " + SymbolAt(id, step) + " " + SortSymbol(sort) + ")")
}

// Assert emits an assertion. The body is an already-rendered SMT term.
func (s *Session) Assert(body string) error {
	return s.writeLine("(assert " + body + ")")
}

// Push opens n assertion frames.
func (s *Session) Push(n int) error {
	if err := s.writeLine("(push " + strconv.Itoa(n) + ")"); err != nil {
		return err
	}
	s.frames += n
	return nil
}

// Pop closes n assertion frames. Popping more frames than were pushed in
// this session is an error.
func (s *Session) Pop(n int) error {
	if n > s.frames {
		return errors.Errorf("pop of %d frames but only %d are open", n, s.frames)
	}
	if err := s.writeLine("(pop " + strconv.Itoa(n) + ")"); err != nil {
		return err
	}
	s.frames -= n
	return nil
}

// Frames returns the number of currently open assertion frames.
func (s *Session) Frames() int { return s.frames }

// CheckSat asks the solver for satisfiability of the current assertions and
// blocks until it answers.
func (s *Session) CheckSat() (Result, error) {
	if err := s.writeLine("(check-sat)"); err != nil {
		return Unknown, err
	}
	line, err := s.readLine()
	if err != nil {
		return Unknown, err
	}
	switch line {
	case "sat":
		return Sat, nil
	case "unsat":
		return Unsat, nil
	case "unknown":
		return Unknown, nil
	}
	return Unknown, protocolErrorf("unexpected check-sat response %q", line)
}

// GetValues queries the current model for the given symbols. Only legal
// right after CheckSat returned Sat.
func (s *Session) GetValues(queries []ValueQuery) ([]Binding, error) {
	var sb strings.Builder
	sb.WriteString("(get-value (")
	for i, q := range queries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(q.Symbol)
	}
	sb.WriteString("))")
	if err := s.writeLine(sb.String()); err != nil {
		return nil, err
	}
	sx, err := readSExpr(s.out)
	if err != nil {
		if _, ok := err.(*ProtocolError); ok {
			return nil, err
		}
		return nil, protocolErrorf("while reading get-value response: %v", err)
	}
	return parseValueResponse(sx, queries)
}

// StepValues extracts the model value of every declared state variable at
// one step index, in declaration order.
func (s *Session) StepValues(decls []trans.Decl, step int) ([]trans.Val, error) {
	queries := make([]ValueQuery, len(decls))
	for i, d := range decls {
		queries[i] = ValueQuery{Symbol: SymbolAt(d.ID, step), Sort: d.Sort}
	}
	bindings, err := s.GetValues(queries)
	if err != nil {
		return nil, err
	}
	vals := make([]trans.Val, len(bindings))
	for i, b := range bindings {
		vals[i] = b.Val
	}
	return vals, nil
}

// Reset returns the solver to its initial state, dropping all declarations
// and assertions.
func (s *Session) Reset() error {
	if err := s.writeLine("(reset)"); err != nil {
		return err
	}
	s.frames = 0
	return nil
}

// Close tears the session down: sends exit, closes stdin and waits for the
// child. Safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	if s.frames != 0 {
		s.logger.WithField("frames", s.frames).Warn("closing session with open assertion frames")
	}
	// Best effort; the child may already be gone.
	_ = s.writeLine("(exit)")
	s.closed = true
	err := s.stdin.Close()
	if s.proc != nil {
		if werr := s.proc.Wait(); werr != nil && err == nil {
			err = errors.Wrap(werr, "while waiting for the solver to exit")
		}
	}
	if s.log != nil {
		if cerr := s.log.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.log = nil
	}
	s.logger.Debug("solver session closed")
	return err
}
