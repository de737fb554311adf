// Package lua lets Lua scripts define suggesters.
//
// A Host wraps a sandboxed gopher-lua state. Scripts register suggesters
// through the global suggest table; the definition fields are the
// snake_case names used by definition files (see the config package), plus
// callbacks:
//
//	suggest.register{
//	    name = "tag",
//	    char = "#",
//	    priority = 70,
//	    on_change = function(p)
//	        print(p.name, p.reason, p.full)
//	        if p.full == "skip" then
//	            p.add_ignored(true)
//	        end
//	    end,
//	    on_exit = function(p)
//	        print("exit", p.reason, p.from, p.to, p["end"])
//	    end,
//	    keys = {
//	        Enter = function(p) return true end,
//	    },
//	}
//
// Callbacks receive a props table with the fields name, char, reason,
// stage, full, partial, from, to and end, and the helper functions
// ignore_next_exit() and add_ignored(specific). A key handler returning a
// truthy value swallows the key.
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load and loadstring are removed, so a script cannot reach the
// file system or compile code at run time. Every call into Lua runs under
// the host's execution timeout.
//
// # Errors
//
// Errors in the script body are returned by DoFile and DoString. Errors
// raised inside callbacks are logged and swallowed so that a broken script
// cannot interrupt editing.
//
// # Threading
//
// gopher-lua states are not goroutine-safe. The host serializes every
// call with a mutex; callbacks run on the goroutine dispatching to the view.
package lua
