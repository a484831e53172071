package main

import "github.com/YoshihikoAbe/jsdeob/jsdeob/cmd"

func main() {
	cmd.Execute()
}
