package main

import "github.com/deploymenttheory/go-fileprobe/cmd"

func main() {
	cmd.Execute()
}
