// Package input turns raw user input into editor requests.
//
// Two grammars are supported. MapLine reads whole lines, the way a
// line-oriented session on a pipe or a plain terminal does. MapKey reads
// single key presses from a full-screen frontend. Both decide against the
// current state and return the requests to dispatch, in order; neither
// touches the state itself.
package input
