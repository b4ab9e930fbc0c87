package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hive-corporation/maec/maec"
)

func main() {
	inPath := flag.String("in", "", "input package file (.json or .xml)")
	outPath := flag.String("out", "", "output package file (.json or .xml); omit to only validate")
	validate := flag.Bool("validate", false, "run reference resolution and print findings")
	strict := flag.Bool("strict", false, "treat dangling references as errors")
	flag.Parse()

	if *inPath == "" {
		log.Fatal("❌ -in is required")
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatalf("❌ error reading file: %v", err)
	}

	pkg, err := decodeByExtension(*inPath, data)
	if err != nil {
		log.Fatalf("❌ error decoding %s: %v", *inPath, err)
	}
	fmt.Printf("📦 %s (schema %s): %d families, %d instances, %d behaviors, %d collections, %d relationships\n",
		pkg.ID, pkg.SchemaVersion,
		len(pkg.MalwareFamilies), len(pkg.MalwareInstances), len(pkg.Behaviors),
		len(pkg.Collections), len(pkg.Relationships))

	if *validate || *strict {
		if err := pkg.Validate(); err != nil {
			log.Fatalf("❌ invalid package: %v", err)
		}
		issues := maec.ResolveRefs(pkg)
		for _, issue := range issues {
			fmt.Printf("⚠️  %s\n", issue)
		}
		if len(issues) == 0 {
			fmt.Println("✅ all references resolve within the package")
		} else if *strict {
			fmt.Printf("❌ FAIL: %d unresolved references.\n", len(issues))
			os.Exit(1)
		}
	}

	if *outPath == "" {
		return
	}

	out, err := encodeByExtension(*outPath, pkg)
	if err != nil {
		log.Fatalf("❌ error encoding %s: %v", *outPath, err)
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		log.Fatalf("❌ error writing file: %v", err)
	}
	fmt.Printf("✅ wrote %s\n", *outPath)
}

func decodeByExtension(path string, data []byte) (*maec.Package, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		return maec.DecodeXML(data)
	case ".json":
		return maec.DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported extension %q (use .json or .xml)", ext)
	}
}

func encodeByExtension(path string, pkg *maec.Package) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		return maec.EncodeXML(pkg)
	case ".json":
		return maec.EncodeJSON(pkg)
	default:
		return nil, fmt.Errorf("unsupported extension %q (use .json or .xml)", ext)
	}
}
