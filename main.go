package main

import "github.com/subnamehq/subctl/cmd"

func main() {
	cmd.Execute()
}
