package main

import "partner-panel/cmd"

func main() {
	cmd.Execute()
}
