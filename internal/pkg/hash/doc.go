// Package hash provides keyed digests for secrets that must never be logged
// or compared in plain form.
//
// The service uses it to fingerprint the provisioned seed: logs carry a short
// HMAC of the seed so operators can tell two provisionings apart without
// learning the secret itself.
package hash
