// Package main provides the scancoin command-line client.
//
// scancoin identifies a coin from photos of its faces and keeps a local
// collection of the results.
//
// Usage:
//
//	scancoin identify --obverse front.jpg [--reverse back.jpg] [--save]
//	scancoin list
//	scancoin show <id>
package main

func main() {
	Execute()
}
