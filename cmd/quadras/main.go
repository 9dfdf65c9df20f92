package main

import "github.com/example/quadras-reserva/cmd"

func main() {
	cmd.Execute()
}
