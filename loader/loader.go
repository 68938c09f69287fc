// Package loader reads floating-point assembly programs from disk.
package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/tomasim/insts"
)

// Program represents a decoded program ready for simulation.
type Program struct {
	// Path is the file the program was read from.
	Path string
	// Instructions holds the decoded instructions in program order.
	Instructions []insts.Instruction
	// Skipped lists the non-blank lines the decoder could not parse.
	Skipped []insts.SkippedLine
}

// Option is a functional option for the loader.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that receives one debug record per dropped line.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Load reads and decodes the program at path. Malformed lines are dropped
// and reported in Program.Skipped; only I/O failures return an error.
func Load(path string, opts ...Option) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}

// Read decodes a program from r.
func Read(r io.Reader, opts ...Option) (*Program, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	instructions, skipped, err := insts.NewDecoder().DecodeReader(r)
	if err != nil {
		return nil, err
	}

	for _, s := range skipped {
		o.logger.Debug("dropped malformed line", "line", s.Number, "text", s.Text)
	}

	return &Program{
		Instructions: instructions,
		Skipped:      skipped,
	}, nil
}
