package main

import "texlerc/cmd"

func main() {
	cmd.Execute()
}
