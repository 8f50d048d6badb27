package main

import "mediabrowse/cmd"

func main() {
	cmd.Execute()
}
