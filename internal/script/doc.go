// Package script reads edit scripts and replays them through the engine.
//
// An edit script is a YAML document naming some buffers and a list of
// steps. Each step is one engine call:
//
//	name: three commands
//	undo:
//	  soft_limit: 100
//	  strong_limit: 200
//	buffers:
//	  - name: main
//	    text: "hello"
//	  - name: mirror
//	    base: main
//	steps:
//	  - {op: insert, at: 5, text: " world"}
//	  - {op: end}
//	  - {op: delete, from: 0, to: 6}
//	  - {op: property, from: 0, to: 5, name: face, value: bold}
//	  - {op: end}
//	  - {op: collect}
//
// Steps without a buffer apply to the first buffer. The recognised ops are
// insert, delete, replace, property, goto, marker, save, end, collect,
// enable, disable and reset.
package script
