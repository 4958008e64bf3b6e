// Package otp implements RFC 6238 time-based one-time passwords on top of the
// RFC 4226 HOTP primitive.
//
// Configuration is never stored on a shared object: step, digit count and
// verification window are passed as a Params value on every call, so
// concurrent callers with different settings cannot interfere.
package otp
