package recipes

import (
	"fmt"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/sheetsmith/anim"
)

// A naming script defines name(kind, row, suffix) and returns the display
// name for that row. An empty string keeps the default name.
const namerDispatchScript = `
__result = name(__kind, __row, __suffix)
`

// CompileNamer compiles a tengo naming script into an anim.Namer. The
// returned function is safe for concurrent use.
func CompileNamer(src []byte) (anim.Namer, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + namerDispatchScript))
	_ = script.Add("__kind", "")
	_ = script.Add("__row", 0)
	_ = script.Add("__suffix", "")
	_ = script.Add("__result", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("recipes: compile naming script: %w", err)
	}

	var mu sync.Mutex
	return func(kind anim.Kind, row int, suffix string) (string, error) {
		mu.Lock()
		defer mu.Unlock()

		if err := compiled.Set("__kind", kind.String()); err != nil {
			return "", err
		}
		if err := compiled.Set("__row", row); err != nil {
			return "", err
		}
		if err := compiled.Set("__suffix", suffix); err != nil {
			return "", err
		}
		if err := compiled.Run(); err != nil {
			return "", fmt.Errorf("recipes: naming script: %w", err)
		}
		v := compiled.Get("__result")
		if v.IsUndefined() {
			return "", nil
		}
		return strings.TrimSpace(v.String()), nil
	}, nil
}

// LoadNamer loads and compiles a naming script by name.
func LoadNamer(name string) (anim.Namer, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("recipes: load script %s: %w", name, err)
	}
	return CompileNamer(src)
}
