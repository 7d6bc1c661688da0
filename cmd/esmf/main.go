// Package main provides the esmf CLI for validating instance data against
// SAMM aspect models.
package main

func main() {
	Execute()
}
