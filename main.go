package main

import "github.com/agentregistry/agr/cmd"

func main() {
	cmd.Execute()
}
