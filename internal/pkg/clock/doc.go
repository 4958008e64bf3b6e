// Package clock provides a tiny time abstraction.
//
// Code that derives one-time codes must read the wall clock through Clocker so
// tests can pin the current time step with Fixed or Func.
package clock
