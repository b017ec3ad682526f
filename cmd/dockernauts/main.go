// The operator CLI for the Dockernauts economy.
package main

import "github.com/dockernauts/dockernauts-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
