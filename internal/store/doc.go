// Package store holds application state and serializes every change to it.
//
// A Store owns a state value, a reducer and an effect runner. Producers
// send (action, effect) pairs with Dispatch; a single consumer started by
// Run applies them in the order they were accepted:
//
//  1. the action, if present, is reduced into a new state;
//  2. the new state is committed and sent to every subscriber;
//  3. the effect, if present, is started on its own goroutine with the
//     committed state.
//
// Actions yielded by an effect are dispatched back into the same queue,
// so they are ordered like any other producer's actions.
//
// Readers call State for the latest committed value or Subscribe to
// observe every committed value in order.
package store
