package main

import "github.com/mvp-joe/pyscaffold/internal/cli"

func main() {
	cli.Execute()
}
