// declgen writes a starter program document or validates an existing one.
package main

import (
	"flag"
	"log"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/decld/internal/config"
)

func main() {
	output := flag.String("output", "decld.toml", "output path for the document template")
	validate := flag.Bool("validate", false, "validate an existing program document")
	input := flag.String("input", "decld.toml", "document path for validation")
	force := flag.Bool("force", false, "overwrite an existing document")
	flag.Parse()

	if *validate {
		var doc config.Document
		if _, err := toml.DecodeFile(*input, &doc); err != nil {
			log.Fatal(err)
		}
		if err := config.ValidateDocument(doc); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated program document at %s", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote program document template to %s", *output)
}
