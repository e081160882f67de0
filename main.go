package main

import "github.com/oluwadami/jobpilot/cmd"

func main() {
	cmd.Execute()
}
