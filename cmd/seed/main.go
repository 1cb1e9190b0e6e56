package main

import (
	"log"

	tool "github.com/memberbase/member-registry/internal/tools/seed"
)

func main() {
	if err := tool.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
