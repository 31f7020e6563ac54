package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"onebrc/internal/brc"
)

func main() {
	flag.Parse()
	inputFile := "measurements.txt"
	if flag.NArg() > 0 {
		inputFile = flag.Arg(0)
	}

	f, err := os.Open(inputFile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	res, err := brc.Baseline(f)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res)
}
