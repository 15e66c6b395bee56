package main

import "github.com/nfrund/passauth/cmd/passauth-cli/cmd"

func main() {
	cmd.Execute()
}
