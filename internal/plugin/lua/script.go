package lua

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/hook"
	"github.com/dshills/undolog/internal/logging"
)

// Global functions a script may define.
const (
	// OverflowFunc is called as outer_limit(size, buffer_name) when the
	// newest command exceeds the outer limit. A truthy result means the
	// script dealt with the log.
	OverflowFunc = "outer_limit"

	// FirstChangeFunc is called as first_change(buffer_name) on the first
	// undoable change of a clean interval.
	FirstChangeFunc = "first_change"
)

// Script is a loaded Lua file with the undo module installed. Its functions
// see the buffer they were called for through the undo module:
//
//	undo.size([boundaries])  cost of the log, whole log when omitted
//	undo.entries()           number of records
//	undo.boundaries()        number of boundaries
//	undo.clear()             drop the whole log
//	undo.log(message)        write an info line
type Script struct {
	name    string
	state   *State
	logger  *logging.Logger
	current undo.Buffer
}

// Load reads and runs a script file.
func Load(path string, logger *logging.Logger, opts ...StateOption) (*Script, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load lua script: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadString(name, string(code), logger, opts...)
}

// LoadString runs code as a script called name.
func LoadString(name, code string, logger *logging.Logger, opts ...StateOption) (*Script, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Script{
		name:   name,
		state:  NewState(opts...),
		logger: logger.WithComponent("lua").WithField("script", name),
	}
	s.state.RegisterModule("undo", s.module())

	if err := s.state.DoString(code); err != nil {
		_ = s.state.Close()
		return nil, &ScriptError{Script: name, Err: err}
	}
	return s, nil
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

// Close releases the Lua state.
func (s *Script) Close() error {
	return s.state.Close()
}

// OverflowHandler returns an undo overflow handler backed by the script's
// outer_limit function, or nil if the script does not define one.
func (s *Script) OverflowHandler() undo.OverflowHandler {
	if !s.state.HasFunction(OverflowFunc) {
		return nil
	}
	return func(buf undo.Buffer, size int) (bool, error) {
		ret, err := s.call(buf, OverflowFunc, lua.LNumber(size), lua.LString(buf.Name()))
		if err != nil {
			return false, err
		}
		return lua.LVAsBool(ret), nil
	}
}

// Hook returns a change hook backed by the script's first_change function,
// or nil if the script does not define one.
func (s *Script) Hook() hook.ChangeHook {
	if !s.state.HasFunction(FirstChangeFunc) {
		return nil
	}
	return &scriptHook{script: s}
}

func (s *Script) call(buf undo.Buffer, fn string, args ...lua.LValue) (lua.LValue, error) {
	s.current = buf
	defer func() { s.current = nil }()

	ret, err := s.state.Call(context.Background(), fn, args...)
	if err != nil {
		return lua.LNil, &ScriptError{Script: s.name, Func: fn, Err: err}
	}
	return ret, nil
}

func (s *Script) module() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"size": func(L *lua.LState) int {
			log := s.currentLog(L)
			if log.Disabled() {
				L.Push(lua.LNil)
				return 1
			}
			size, err := undo.ScanCost(log, L.OptInt(1, 0))
			if err != nil {
				L.RaiseError("%s", err.Error())
			}
			L.Push(lua.LNumber(size))
			return 1
		},
		"entries": func(L *lua.LState) int {
			L.Push(lua.LNumber(s.currentLog(L).Len()))
			return 1
		},
		"boundaries": func(L *lua.LState) int {
			L.Push(lua.LNumber(s.currentLog(L).Boundaries()))
			return 1
		},
		"clear": func(L *lua.LState) int {
			log := s.currentLog(L)
			s.logger.Warn("undo log cleared by script", "buffer", s.current.Name(), "entries", log.Len())
			log.Clear()
			return 0
		},
		"log": func(L *lua.LState) int {
			s.logger.Info(L.CheckString(1))
			return 0
		},
	}
}

func (s *Script) currentLog(L *lua.LState) *undo.Log {
	if s.current == nil {
		L.RaiseError("undo: no buffer outside a callback")
	}
	log := s.current.UndoLog()
	if log == nil {
		L.RaiseError("undo: buffer %s has no log", s.current.Name())
	}
	return log
}

// scriptHook adapts a script's first_change function to hook.ChangeHook.
type scriptHook struct {
	script *Script
}

func (h *scriptHook) Name() string { return "lua:" + h.script.name }

func (h *scriptHook) Priority() int { return hook.PriorityScript }

func (h *scriptHook) FirstUndoableChange(buf undo.Buffer) error {
	_, err := h.script.call(buf, FirstChangeFunc, lua.LString(buf.Name()))
	return err
}
