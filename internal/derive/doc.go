// Package derive computes filtered, ordered views over entity collections.
//
// A listing declares its filter surface as a Spec (ordered search/select
// descriptors) and evaluates a Values map against it through Apply. Apply is
// a pure function of its inputs: it never mutates or retains the input
// slice, so feeding the same values twice yields the same output.
//
// The reserved value "all" (and the empty string for search fields) means
// "no restriction"; it must never collide with a real data value.
package derive
