// Command encode-credentials converts a Google service-account
// credentials.json into the base64 form that deployment platforms take
// as an environment variable.
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"os"
)

func main() {
	file := flag.String("file", "credentials.json", "Path to the service account credentials JSON")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", *file, err)
		os.Exit(1)
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	fmt.Printf("Successfully encoded %s\n\n", *file)
	fmt.Println("Add this to your .env file or deployment platform:")
	fmt.Printf("GOOGLE_CREDENTIALS=%s\n", encoded)
}
