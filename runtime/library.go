package runtime

import (
	"math"

	"github.com/sergev/pulse/lang"
)

func installLibrary(env *lang.Env) {
	env.Define("NULL", lang.Null)
	env.Define("TRUE", lang.True)
	env.Define("FALSE", lang.False)
	env.Define("MATH_PI", lang.FloatValue(math.Pi))
}

// setArgv binds ARGV to a fresh list so programs cannot alter another run's
// arguments.
func setArgv(env *lang.Env, args []string) {
	values := make([]lang.Value, len(args))
	for i, arg := range args {
		values[i] = lang.StringValue(arg)
	}
	env.Define("ARGV", lang.ListValue(values...))
}
