package main

import "github.com/KaramelBytes/eduprobe-cli/cmd"

func main() {
	cmd.Execute()
}
