package main

import "huffduff-video/cmd"

func main() {
	cmd.Execute()
}
