package runtime

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sergev/pulse/lang"
)

func (s *Stdlib) installPrimitives(env *lang.Env) {
	define := func(name string, params []string, fn lang.Native) {
		env.Define(name, lang.BuiltinValue(name, params, fn))
	}

	define("print", []string{"value"}, s.primPrint)
	define("print_ret", []string{"value"}, primPrintRet)
	define("input", nil, s.primInput)
	define("input_int", nil, s.primInputInt)
	define("clear", nil, s.primClear)

	define("is_number", []string{"value"}, typePredicate(lang.TypeNumber))
	define("is_string", []string{"value"}, typePredicate(lang.TypeString))
	define("is_list", []string{"value"}, typePredicate(lang.TypeList))
	define("is_function", []string{"value"}, typePredicate(lang.TypeFunction, lang.TypeBuiltin))

	define("append", []string{"list", "value"}, primAppend)
	define("pop", []string{"list", "index"}, primPop)
	define("extend", []string{"listA", "listB"}, primExtend)
	define("len", []string{"list"}, primLen)

	define("run", []string{"fn"}, s.primRun)
}

func (s *Stdlib) primPrint(f *lang.Frame) (lang.Value, error) {
	if _, err := fmt.Fprintln(s.stdout, f.Arg("value").String()); err != nil {
		return lang.None, errors.Wrap(err, "print")
	}
	return lang.Null, nil
}

func primPrintRet(f *lang.Frame) (lang.Value, error) {
	return lang.StringValue(f.Arg("value").String()), nil
}

func (s *Stdlib) primInput(f *lang.Frame) (lang.Value, error) {
	line, err := s.input.ReadLine("")
	if err != nil {
		return lang.None, errors.Wrap(err, "input")
	}
	return lang.StringValue(line), nil
}

func (s *Stdlib) primInputInt(f *lang.Frame) (lang.Value, error) {
	for {
		line, err := s.input.ReadLine("")
		if err != nil {
			return lang.None, errors.Wrap(err, "input_int")
		}
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err == nil {
			return lang.IntValue(n), nil
		}
		if _, err := fmt.Fprintf(s.stdout, "'%s' must be an integer. Try again!\n", line); err != nil {
			return lang.None, errors.Wrap(err, "input_int")
		}
	}
}

func (s *Stdlib) primClear(f *lang.Frame) (lang.Value, error) {
	if err := s.clear(s.stdout); err != nil {
		return lang.None, errors.Wrap(err, "clear")
	}
	return lang.Null, nil
}

// clearScreen moves the cursor home and erases the display.
func clearScreen(w io.Writer) error {
	_, err := io.WriteString(w, "\x1b[H\x1b[2J")
	return err
}

func typePredicate(types ...lang.ValueType) lang.Native {
	return func(f *lang.Frame) (lang.Value, error) {
		v := f.Arg("value")
		for _, t := range types {
			if v.Type == t {
				return lang.True, nil
			}
		}
		return lang.False, nil
	}
}

func primAppend(f *lang.Frame) (lang.Value, error) {
	list := f.Arg("list")
	if list.Type != lang.TypeList {
		return lang.None, f.Errorf("First argument must be list")
	}
	store := list.List()
	store.Elements = append(store.Elements, f.Arg("value"))
	return lang.Null, nil
}

func primPop(f *lang.Frame) (lang.Value, error) {
	list, index := f.Arg("list"), f.Arg("index")
	if list.Type != lang.TypeList {
		return lang.None, f.Errorf("First argument must be list")
	}
	if index.Type != lang.TypeNumber {
		return lang.None, f.Errorf("Second argument must be number")
	}
	store := list.List()
	i, ok := lang.ResolveIndex(index, len(store.Elements))
	if !ok {
		return lang.None, f.Errorf("Element at this index could not be removed from list because index is out of bounds")
	}
	elem := store.Elements[i]
	store.Elements = append(store.Elements[:i], store.Elements[i+1:]...)
	return elem, nil
}

func primExtend(f *lang.Frame) (lang.Value, error) {
	a, b := f.Arg("listA"), f.Arg("listB")
	if a.Type != lang.TypeList {
		return lang.None, f.Errorf("First argument must be list")
	}
	if b.Type != lang.TypeList {
		return lang.None, f.Errorf("Second argument must be list")
	}
	store := a.List()
	store.Elements = append(store.Elements, b.List().Elements...)
	return lang.Null, nil
}

func primLen(f *lang.Frame) (lang.Value, error) {
	list := f.Arg("list")
	if list.Type != lang.TypeList {
		return lang.None, f.Errorf("Argument must be list")
	}
	return lang.IntValue(int64(len(list.List().Elements))), nil
}

// primRun executes another script in its own global environment.
func (s *Stdlib) primRun(f *lang.Frame) (lang.Value, error) {
	fn := f.Arg("fn")
	if fn.Type != lang.TypeString {
		return lang.None, f.Errorf("Argument must be string")
	}
	name := fn.Str()
	s.logger.Debug("loading script", "file", name)

	text, err := s.loader.Load(name)
	if err != nil {
		return lang.None, f.Errorf("Failed to load script \"%s\"\n%v", name, err)
	}
	if _, err := s.Run(name, text); err != nil {
		rterr := f.Errorf("Failed to finish executing script \"%s\"\n%s", name, Report(err))
		rterr.Cause = err
		return lang.None, rterr
	}
	return lang.Null, nil
}
