package rules

import (
	"errors"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// Errors returned by the Lua rules loader.
var (
	// ErrNotTable indicates the rules chunk did not return a table.
	ErrNotTable = errors.New("rules file must return a table")
)

// LoadFile loads a rule set from a Lua file.
//
// The file must return a table of the form:
//
//	return {
//	    default = { indent_size = 4, indent_style = "space" },
//	    languages = {
//	        go = { indent_style = "tab", max_line_length = 100 },
//	    },
//	}
//
// Missing fields inherit from the built-in defaults. A missing file is not
// an error; the built-in defaults are returned.
func LoadFile(path string) (*Set, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSet(), nil
	}

	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}

	return setFromState(L)
}

// LoadString loads a rule set from Lua source text.
func LoadString(source string) (*Set, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(source); err != nil {
		return nil, fmt.Errorf("rules source: %w", err)
	}

	return setFromState(L)
}

// setFromState reads the chunk's return value off the Lua stack.
func setFromState(L *lua.LState) (*Set, error) {
	top := L.Get(-1)
	table, ok := top.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrNotTable, top.Type())
	}

	set := DefaultSet()

	if def, ok := L.GetField(table, "default").(*lua.LTable); ok {
		set.Fallback = rulesFromTable(def, set.Fallback)
	}

	if langs, ok := L.GetField(table, "languages").(*lua.LTable); ok {
		langs.ForEach(func(key, value lua.LValue) {
			name, ok := key.(lua.LString)
			if !ok {
				return
			}
			overrides, ok := value.(*lua.LTable)
			if !ok {
				return
			}
			set.ByLanguage[string(name)] = rulesFromTable(overrides, set.Fallback)
		})
	}

	return set, nil
}

// rulesFromTable converts a Lua table to Rules, inheriting from base.
func rulesFromTable(t *lua.LTable, base Rules) Rules {
	r := base

	t.ForEach(func(key, value lua.LValue) {
		name, ok := key.(lua.LString)
		if !ok {
			return
		}

		switch string(name) {
		case "indent_size":
			if n, ok := value.(lua.LNumber); ok && int(n) > 0 {
				r.IndentSize = int(n)
			}
		case "indent_style":
			if s, ok := value.(lua.LString); ok {
				switch IndentStyle(s) {
				case IndentSpace, IndentTab:
					r.IndentStyle = IndentStyle(s)
				}
			}
		case "trim_trailing_whitespace":
			if b, ok := value.(lua.LBool); ok {
				r.TrimTrailingWhitespace = bool(b)
			}
		case "max_line_length":
			if n, ok := value.(lua.LNumber); ok && int(n) >= 0 {
				r.MaxLineLength = int(n)
			}
		}
	})

	return r
}
