package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func main() {
	name := flag.String("name", "", "migration name, snake_case")
	dir := flag.String("dir", filepath.Join("db", "migrations"), "migrations directory")
	flag.Parse()

	if err := run(*name, *dir); err != nil {
		log.Fatal(err)
	}
}

func run(name, dir string) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}
	if strings.ContainsAny(name, " \t") {
		return fmt.Errorf("migration name must not contain whitespace")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create migrations dir: %w", err)
	}

	version := time.Now().UTC().Format("20060102150405")
	base := filepath.Join(dir, version+"_"+name)
	for suffix, stub := range map[string]string{
		".up.sql":   "-- up migration\n",
		".down.sql": "-- down migration\n",
	} {
		path := base + suffix
		if err := createFile(path, stub); err != nil {
			return err
		}
		log.Printf("created %s", path)
	}
	return nil
}

func createFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
