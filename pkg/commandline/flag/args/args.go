package args

import (
	"errors"
	"fmt"
)

// Arg declares one positional argument.
type Arg struct {
	// name of the argument
	Name string

	// help message
	Help string

	// set true if the argument is mandatory
	Required bool

	// set true if the argument is repeatable
	Repeatable bool
}

func (a Arg) String() string {
	str := a.Name
	if a.Repeatable {
		str += "..."
	}
	if a.Required {
		return "<" + str + ">"
	}
	return "[" + str + "]"
}

type Args []Arg

func New(args ...Arg) Args {
	return args
}

func (a Args) String() string {
	str := ""
	for _, arg := range a {
		str += " " + arg.String()
	}
	return str
}

var ErrArgs = errors.New("arguments error")
var ErrNotEnough = fmt.Errorf("%w: not enough", ErrArgs)
var ErrTooMany = fmt.Errorf("%w: too many", ErrArgs)

// Parse assigns argv onto the declared arguments, left to right.
//
// Values beyond the mandatory minimum flow into optional and repeatable
// arguments in declaration order. Every declared name gets an entry in
// the result, empty when nothing was assigned.
func (args Args) Parse(argv []string) (map[string][]string, error) {
	parsed := map[string][]string{}
	mandatories := 0
	for _, a := range args {
		if a.Required {
			mandatories++
		}
		parsed[a.Name] = []string{}
	}

	rest := argv[:]
	dest := args[:]
	for mandatories < len(rest) {
		if len(dest) == 0 {
			return nil, ErrTooMany
		}
		d := dest[0]
		parsed[d.Name] = append(parsed[d.Name], rest[0])
		if d.Required && len(parsed[d.Name]) == 1 {
			mandatories--
		}

		rest = rest[1:]
		if !d.Repeatable {
			dest = dest[1:]
		}
	}

	// whatever is left must cover the remaining mandatory arguments.
	for _, d := range dest {
		if !d.Required {
			continue
		}
		if d.Repeatable && 0 < len(parsed[d.Name]) {
			continue
		}
		if len(rest) == 0 {
			return nil, ErrNotEnough
		}
		parsed[d.Name] = append(parsed[d.Name], rest[0])
		rest = rest[1:]
	}

	if 0 < len(rest) {
		return nil, ErrTooMany
	}

	return parsed, nil
}
