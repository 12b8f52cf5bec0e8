package main

import "github.com/medilink/medilink/cmd"

func main() {
	cmd.Execute()
}
