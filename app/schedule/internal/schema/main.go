// Command schema writes JSON schema of the schedule file, used by editors for validation and completion
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/umputun/jobwatch/app/schedule"
)

func main() {
	data, err := json.MarshalIndent(schedule.GenerateSchema(), "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal schema: %v", err)
	}

	outputPath := "schedule.schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}
	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		log.Fatalf("failed to write schema file: %v", err)
	}
	fmt.Printf("schema generated at %s\n", outputPath)
}
