package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	engine "reg-manager/core/backup"
	"reg-manager/core/config"
	"reg-manager/core/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_artifact <artifact.json>")
	}

	// Decode the artifact
	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	art, err := engine.Extract(raw)
	if err != nil {
		log.Fatal(err)
	}

	// Test 1: Shape vs declared counts
	fmt.Println("=== TEST 1: Artifact Shape ===")
	fmt.Printf("format_version=%d exported_by=%s exported_at=%s\n",
		art.FormatVersion, art.Metadata.ExportedBy, art.Metadata.ExportedAt)
	for i := range art.Tables {
		t := &art.Tables[i]
		declared, ok := art.Metadata.RecordCounts[t.Name]
		if !ok {
			fmt.Printf("table=%s pk=%v rows=%d (no declared count)\n", t.Name, t.PrimaryKey, len(t.Rows))
			continue
		}
		marker := ""
		if declared != len(t.Rows) {
			marker = "  ⚠️  COUNT MISMATCH"
		}
		fmt.Printf("table=%s pk=%v rows=%d declared=%d%s\n", t.Name, t.PrimaryKey, len(t.Rows), declared, marker)
	}

	// Test 2: Duplicate canonical keys inside the artifact
	fmt.Println("\n=== TEST 2: Duplicate Keys ===")
	for i := range art.Tables {
		t := &art.Tables[i]
		seen := make(map[string]int, len(t.Rows))
		for _, row := range t.Rows {
			seen[t.Key(row)]++
		}
		dups := 0
		for key, n := range seen {
			if n > 1 {
				dups++
				if dups <= 5 {
					fmt.Printf("DUPLICATE in %s: key=%s count=%d\n", t.Name, key, n)
				}
			}
		}
		if dups == 0 {
			fmt.Printf("%s: %d keys, all unique\n", t.Name, len(seen))
		} else {
			fmt.Printf("%s: %d duplicate keys\n", t.Name, dups)
		}
	}

	// Test 3: Key overlap against the live store. A row that should update
	// but shows up as only-in-artifact means the canonical key diverged
	// (typing drift between the exporter and this store).
	fmt.Println("\n=== TEST 3: Store Key Overlap ===")
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		fmt.Printf("no database (%v), skipping overlap check\n", err)
		return
	}
	schema, err := cfg.Merge.ResolveSchema()
	if err != nil {
		log.Fatal(err)
	}
	snap, err := engine.CreateSnapshot(context.Background(), db, schema, "debug")
	if err != nil {
		log.Fatal(err)
	}

	summary := map[string]map[string]int{}
	for i := range art.Tables {
		t := &art.Tables[i]
		stored := snap.Table(t.Name)
		if stored == nil {
			fmt.Printf("%s: not in store schema\n", t.Name)
			continue
		}

		storeKeys := make(map[string]bool, len(stored.Rows))
		for _, row := range stored.Rows {
			storeKeys[stored.Key(row)] = true
		}

		both, onlyArtifact := 0, 0
		shown := 0
		for _, row := range t.Rows {
			key := t.Key(row)
			if storeKeys[key] {
				both++
				continue
			}
			onlyArtifact++
			if shown < 5 {
				fmt.Printf("only in artifact: %s key=%s\n", t.Name, key)
				shown++
			}
		}
		onlyStore := len(storeKeys) - both
		fmt.Printf("%s: both=%d only_artifact=%d only_store=%d\n", t.Name, both, onlyArtifact, onlyStore)
		summary[t.Name] = map[string]int{
			"both":          both,
			"only_artifact": onlyArtifact,
			"only_store":    onlyStore,
		}
	}

	data, _ := json.MarshalIndent(summary, "", "  ")
	os.WriteFile("debug_artifact.json", data, 0644)
	fmt.Println("\nDebug complete. Check debug_artifact.json for details.")
}
