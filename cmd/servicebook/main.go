package main

import "github.com/chis/servicebook/internal/output"

// version can be set during build with -ldflags
var version = "dev"

func main() {
	output.Version = version
	Execute()
}
