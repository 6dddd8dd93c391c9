package flagger

import (
	"flag"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// Flag is one flag derived from a struct field.
type Flag struct {
	Name      string
	ShortName string
	Help      string
	MetaVar   string
	ptr       reflect.Value
}

// SetFlag registers the flag (and its short alias) on fs.
func (f Flag) SetFlag(fs *flag.FlagSet) error {
	register := func(name, help string) error {
		switch dv := f.ptr.Interface().(type) {
		case *bool:
			fs.BoolVar(dv, name, *dv, help)
		case *string:
			fs.StringVar(dv, name, *dv, help)
		case *int:
			fs.IntVar(dv, name, *dv, help)
		case *int64:
			fs.Int64Var(dv, name, *dv, help)
		case *uint:
			fs.UintVar(dv, name, *dv, help)
		case *uint64:
			fs.Uint64Var(dv, name, *dv, help)
		case *float64:
			fs.Float64Var(dv, name, *dv, help)
		case *time.Duration:
			fs.DurationVar(dv, name, *dv, help)
		case flag.Value:
			fs.Var(dv, name, help)
		default:
			return fmt.Errorf("unsupported flag type: %T", dv)
		}
		return nil
	}

	if err := register(f.Name, f.Help); err != nil {
		return err
	}
	if f.ShortName != "" {
		return register(f.ShortName, fmt.Sprintf("alias for %s", f.Name))
	}
	return nil
}

func (f Flag) String() string {
	str := "--" + f.Name
	if f.ShortName != "" {
		str += "|-" + f.ShortName
	}

	if _, isBool := f.ptr.Interface().(*bool); isBool {
		return "[" + str + "]"
	}

	metavar := f.MetaVar
	if metavar == "" {
		switch val := f.ptr.Interface().(type) {
		case *string:
			metavar = *val
		case *time.Duration:
			metavar = fmt.Sprintf("%q", val.String())
		case flag.Value:
			metavar = val.String()
		default:
			metavar = fmt.Sprint(f.ptr.Elem().Interface())
		}
	}
	return str + "=" + metavar
}

// Flagger derives flags from struct tags.
//
// Each exported field of T carrying a `flag` tag becomes a flag:
//
//	type MyFlags struct {
//		Flag1 string `flag:"flag1,help=message for flag1"`
//		Flag2 int    `flag:"custom-flag-name,short=f"`
//		Flag3 string `flag:",metavar=VALUE"` // named "flag3" after the field
//	}
//
// The first tag element is the flag name; empty means the field name in
// lower-kebab-case. Attributes `short`, `help` and `metavar` are
// optional. Field values at New are the flag defaults.
type Flagger[T any] struct {
	Flags  []Flag
	Values *T
}

var reUpper = regexp.MustCompile("[A-Z][^A-Z]*")

// New derives a Flagger from v's struct tags.
//
// Panics when T is not a struct.
func New[T any](v T) *Flagger[T] {
	flgr := &Flagger[T]{Values: &v}

	rv := reflect.ValueOf(flgr.Values).Elem()
	if rv.Kind() != reflect.Struct {
		panic("flag receiver must be struct")
	}

	rt := rv.Type()
	flags := make([]Flag, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("flag")
		if !ok {
			continue
		}

		flg := Flag{}
		attrs := strings.Split(tag, ",")
		flg.Name = attrs[0]
		if flg.Name == "" {
			flg.Name = strings.ToLower(strings.TrimPrefix(
				reUpper.ReplaceAllString(field.Name, "-${0}"), "-",
			))
		}
		for _, a := range attrs[1:] {
			name, value, _ := strings.Cut(a, "=")
			switch name {
			case "short":
				flg.ShortName = value
			case "help":
				flg.Help = value
			case "metavar":
				flg.MetaVar = value
			}
		}

		if _, ok := rv.Field(i).Interface().(flag.Value); ok {
			flg.ptr = rv.Field(i)
		} else {
			flg.ptr = rv.Field(i).Addr()
		}
		flags = append(flags, flg)
	}

	flgr.Flags = flags
	return flgr
}

func (f *Flagger[T]) SetFlags(fs *flag.FlagSet) (*flag.FlagSet, error) {
	for _, flg := range f.Flags {
		if err := flg.SetFlag(fs); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

func (f *Flagger[T]) String() string {
	strs := make([]string, 0, len(f.Flags))
	for _, flg := range f.Flags {
		strs = append(strs, flg.String())
	}
	return strings.Join(strs, " ")
}
