// Package script runs Lua scripts against the editor.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. A global "lined" table exposes the editor:
//
//	lined.exec("0a")            -- run a command line, returns true if understood
//	lined.input("hello")        -- add a line of input
//	lined.char("abc")           -- type characters
//	lined.keys("a h i <Esc>")   -- press keys as the screen frontend would
//	lined.enter()
//	lined.append([n])           -- start appending at line n (default: cursor line)
//	lined.normal()
//	lined.command()
//	lined.print()               -- print the whole document
//	lined.printline(n)
//	lined.quit()
//	lined.mode()                -- "normal", "command", "input", "confirm-exit", "exit"
//	lined.lines()
//	lined.text()
//	lined.cursor()              -- line, column
//
// Every change goes through the store, in order with the other producers.
// Reads wait for the script's earlier changes to be applied.
package script
