package main

import "github.com/rabidaudio/cuestream/cmd"

func main() {
	cmd.Execute()
}
