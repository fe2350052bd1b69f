package main

import "github.com/kfreiman/careercoach/cmd"

func main() {
	cmd.Execute()
}
