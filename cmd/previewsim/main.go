// Command previewsim runs scripted preview window scenarios without a display.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"sort"
	"time"

	"github.com/milk9111/spritepreview/config"
)

func main() {
	scenario := flag.String("scenario", "", "embedded scenario to run (default: all)")
	file := flag.String("file", "", "tengo script to run instead of an embedded scenario")
	configPath := flag.String("config", "", "settings file to use; in-memory when empty")
	timeout := flag.Duration("timeout", 10*time.Second, "per-scenario time limit")
	dump := flag.Bool("dump", false, "print the final mirrored state")
	list := flag.Bool("list", false, "list embedded scenarios")
	snapshot := flag.String("snapshot", "", "write the preview's final frame of the last scenario as PNG")
	flag.Parse()

	if *list {
		for _, name := range Scenarios() {
			fmt.Println(name)
		}
		return
	}

	type job struct {
		name string
		src  []byte
	}
	var jobs []job
	switch {
	case *file != "":
		src, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", *file, err)
		}
		jobs = append(jobs, job{name: *file, src: src})
	case *scenario != "":
		src, err := LoadScenario(*scenario)
		if err != nil {
			log.Fatal(err)
		}
		jobs = append(jobs, job{name: *scenario, src: src})
	default:
		for _, name := range Scenarios() {
			src, err := LoadScenario(name)
			if err != nil {
				log.Fatal(err)
			}
			jobs = append(jobs, job{name: name, src: src})
		}
	}

	failed := 0
	for _, j := range jobs {
		cfg := config.NewMemory()
		if *configPath != "" {
			var err error
			cfg, err = config.Load(*configPath)
			if err != nil {
				log.Fatal(err)
			}
		}

		r := NewRunner(cfg, log.Printf)
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		err := r.Run(ctx, j.name, j.src)
		cancel()
		if err != nil {
			log.Printf("FAIL %s: %v", j.name, err)
			failed++
		} else {
			log.Printf("ok   %s", j.name)
		}
		if *dump {
			printState(r.State())
		}
		if *snapshot != "" {
			if err := writeSnapshot(r, *snapshot); err != nil {
				log.Printf("snapshot: %v", err)
			}
		}
		if err := r.Session.Close(); err != nil {
			log.Printf("failed to save settings: %v", err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printState(st map[string]any) {
	keys := make([]string, 0, len(st))
	for k := range st {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-16s %v\n", k, st[k])
	}
}

func writeSnapshot(r *Runner, path string) error {
	img, ok := r.Snapshot()
	if !ok {
		return fmt.Errorf("no preview to capture")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
