// Package provisioning talks to the upstream API that issues encrypted seeds.
// The API receives a student identity plus a public key and answers with the
// seed encrypted under that key.
package provisioning
