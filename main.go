package main

import "github.com/arkadas/facerec/cmd"

func main() {
	cmd.Execute()
}
