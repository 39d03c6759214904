package main

import "github.com/KaramelBytes/zeroml/cmd"

func main() {
	cmd.Execute()
}
