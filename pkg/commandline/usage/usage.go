package usage

import (
	"flag"
	"strings"

	"github.com/framehubio/framehub/pkg/commandline/flag/args"
	"github.com/framehubio/framehub/pkg/commandline/flag/flagger"
)

// Usage declares the flags (struct T, via flagger tags) and positional
// arguments of a command.
type Usage[T any] struct {
	f    *flagger.Flagger[T]
	args args.Args
}

// Args is positional arguments specification.
type Args []args.Arg

// New builds a Usage. Field values of flag are the flag defaults.
func New[T any](flag T, a Args) Usage[T] {
	return Usage[T]{
		f:    flagger.New(flag),
		args: args.New(a...),
	}
}

func (u Usage[T]) Args() args.Args {
	return u.args
}

func (u Usage[T]) Flags() []flagger.Flag {
	return u.f.Flags
}

func (u Usage[T]) SetFlags(fls *flag.FlagSet) {
	u.f.SetFlags(fls)
}

func (u Usage[T]) String() string {
	return strings.TrimSpace(u.f.String() + " " + u.args.String())
}

// Parse assigns positional argv (the remainder after flag parsing) and
// snapshots flag values.
//
// Call the flag.FlagSet's Parse first; see SetFlags.
func (u Usage[T]) Parse(argv []string) (FlagSet[T], error) {
	parsed, err := u.args.Parse(argv)
	if err != nil {
		return FlagSet[T]{Flags: *u.f.Values, Args: nil}, err
	}

	return FlagSet[T]{Flags: *u.f.Values, Args: parsed}, nil
}

// FlagSet is the parse result: flag values and positional arguments.
type FlagSet[T any] struct {
	// Parsed flags.
	Flags T

	// Parsed positional arguments, keyed by declared name.
	Args map[string][]string
}
