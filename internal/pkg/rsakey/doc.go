// Package rsakey loads, generates and uses the RSA key pair that protects
// seed provisioning: OAEP(SHA-256) for transport encryption and PSS(SHA-256)
// for signatures.
package rsakey
