package main

import (
	"log"

	"github.com/tsenwang/hipBLASLt/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
