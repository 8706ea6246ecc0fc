package main

import (
	"github.com/stevedipaola/f-kamu-cli/cmd/kamu-bootstrap/cmd"
)

func main() {
	cmd.Execute()
}
