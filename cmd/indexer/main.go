package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: indexer build [flags] <docsDir> [indexDir]")
	}

	switch os.Args[1] {
	case "build":
		if err := RunBuild(os.Args[2:]); err != nil {
			log.Fatalf("build failed: %v", err)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
