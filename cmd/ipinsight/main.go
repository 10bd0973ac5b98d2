// File: cmd/ipinsight/main.go (complete file)

package main

import (
	"context"
	"os"

	"github.com/baptistax/ip-insight/internal/cli"
)

func main() {
	code := cli.Execute(context.Background(), os.Args[1:])
	os.Exit(code)
}
