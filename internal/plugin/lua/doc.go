// Package lua runs user Lua scripts that customize undo retention.
//
// A script is plain Lua run in a sandboxed gopher-lua state: only the base,
// table, string and math libraries are available and the loaders that read
// code from disk are removed. Every call into Lua is bounded by an
// execution timeout.
//
// Scripts hook into the undo journal by defining global functions:
//
//	-- Called when the newest command alone exceeds the outer limit.
//	-- Return true when the log has been dealt with.
//	function outer_limit(size, buffer)
//	    if size > 50000000 then
//	        undo.log("dropping history of " .. buffer)
//	        undo.clear()
//	        return true
//	    end
//	    return false
//	end
//
//	-- Called on the first undoable change after the buffer was clean.
//	function first_change(buffer)
//	    undo.log(buffer .. " changed")
//	end
//
// Load a script and wire it to a session and a hook manager:
//
//	script, err := lua.Load("retention.lua", logger)
//	if err != nil {
//	    return err
//	}
//	defer script.Close()
//
//	if h := script.OverflowHandler(); h != nil {
//	    session.SetOverflowHandler(h)
//	}
//	if hk := script.Hook(); hk != nil {
//	    hooks.Register(hk)
//	}
package lua
