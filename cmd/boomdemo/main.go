// Command boomdemo exercises the boom library end to end: it is a
// thin demonstration entry point, not the textual command shell (that
// collaborator is a separate component and is not part of this
// module).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/watchboom/boom"
	"github.com/watchboom/boom/internal/boomlog"
	"github.com/watchboom/boom/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML file overriding the default tunables")
	watch := flag.Bool("watch-config", false, "hot-reload -config on change")
	minVersion := flag.String("min-version", "", "reject startup unless this build satisfies the given semver constraint")
	verbose := flag.Bool("verbose", false, "log at Debug instead of Info")
	showVersion := flag.Bool("version", false, "print the library version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Current)
		return
	}

	level := boomlog.LevelInfo
	if *verbose {
		level = boomlog.LevelDebug
	}
	log := boomlog.New(os.Stderr, level)

	opts := []boom.InitOption{boom.WithLogger(log)}
	switch {
	case *watch && *configPath != "":
		opts = append(opts, boom.WithConfigWatch(*configPath))
	case *configPath != "":
		opts = append(opts, boom.WithConfigFile(*configPath))
	}
	if *minVersion != "" {
		opts = append(opts, boom.WithMinVersion(*minVersion))
	}

	b, err := boom.Init(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boomdemo: init failed: %v\n", err)
		os.Exit(1)
	}
	defer b.Quit()

	if err := run(b); err != nil {
		fmt.Fprintf(os.Stderr, "boomdemo: %v\n", err)
		os.Exit(1)
	}
}

// run seeds a couple of courses and lectures, records some watch time,
// and prints the current top-ranked lecture — a scripted sanity check
// of the public API, not a general-purpose shell.
func run(b *boom.Boom) error {
	if err := b.AddCourse(7); err != nil {
		return fmt.Errorf("AddCourse(7): %w", err)
	}
	intro, err := b.AddClass(7)
	if err != nil {
		return fmt.Errorf("AddClass(7): %w", err)
	}
	advanced, err := b.AddClass(7)
	if err != nil {
		return fmt.Errorf("AddClass(7) #2: %w", err)
	}
	if err := b.WatchClass(7, intro, 30); err != nil {
		return fmt.Errorf("WatchClass(7,%d): %w", intro, err)
	}
	if err := b.WatchClass(7, advanced, 90); err != nil {
		return fmt.Errorf("WatchClass(7,%d): %w", advanced, err)
	}

	course, lecture, err := b.GetIthWatchedClass(1)
	if err != nil {
		return fmt.Errorf("GetIthWatchedClass(1): %w", err)
	}
	views, err := b.TimeViewed(course, lecture)
	if err != nil {
		return fmt.Errorf("TimeViewed(%d,%d): %w", course, lecture, err)
	}
	fmt.Printf("most-watched lecture: course=%d lecture=%d views=%d\n", course, lecture, views)
	return nil
}
