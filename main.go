package main

import "github.com/hairfy/appointment-notifier/cmd"

func main() {
	cmd.Execute()
}
