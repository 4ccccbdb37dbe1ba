package main

import "WorshipHub/cmd"

func main() {
	cmd.Execute()
}
