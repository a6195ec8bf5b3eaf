package main

import (
	"context"
	"os"
)

func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	exitCode = newApp().execute(context.Background(), os.Args[1:])
}
