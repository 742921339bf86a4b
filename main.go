package main

import "videoverse/cmd"

func main() {
	cmd.Execute()
}
