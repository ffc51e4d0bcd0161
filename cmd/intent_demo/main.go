package main

import (
	"fmt"
	"os"
	"strings"

	"terra/internal/modules/intent"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, `usage: intent_demo "what museums can I visit in Chicago?" | intent_demo -categories`)
		os.Exit(2)
	}
	if os.Args[1] == "-categories" {
		for _, c := range intent.DefaultSynonyms.Categories() {
			fmt.Printf("%-14s %s\n", c.Word, strings.Join(c.Tags, ", "))
		}
		return
	}

	ex := intent.NewExtractor(intent.DefaultSynonyms)
	for _, msg := range os.Args[1:] {
		in := ex.Extract(msg)
		fmt.Printf("Message:     %s\n", msg)
		fmt.Printf("Identity:    %t\n", in.IsIdentityQuestion)
		fmt.Printf("Destination: %s\n", orDash(in.Destination))
		fmt.Printf("Origin:      %s\n", orDash(in.Origin))
		fmt.Printf("Category:    %s\n", orDash(in.Category))
		if in.Category != "" {
			fmt.Printf("Tags:        %s\n", strings.Join(intent.DefaultSynonyms.Tags(in.Category), ", "))
		}
		fmt.Printf("Actionable:  %t\n\n", in.Actionable())
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
