// Command admin inspects save files and the sqlite save index.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	persistlog "neondrift.city/internal/persistence/log"
	"neondrift.city/internal/persistence/savedb"
	"neondrift.city/internal/persistence/snapshot"
	"neondrift.city/internal/sim/tuning"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "show":
			showCmd(os.Args[2:])
			return
		case "actions":
			actionsCmd(os.Args[2:])
			return
		case "catalogs":
			catalogsCmd(os.Args[2:])
			return
		case "list":
			listCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func dataFlags(fs *flag.FlagSet) (dataDir *string) {
	def := tuning.Defaults().Save.Dir
	if v := os.Getenv("NEONDRIFT_DATA"); v != "" {
		def = v
	}
	return fs.String("data", def, "runtime data directory")
}

func openDB(dataDir string) *savedb.DB {
	path := filepath.Join(dataDir, tuning.Defaults().Save.IndexDB)
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(os.Stderr, "no save index:", err)
		os.Exit(1)
	}
	db, err := savedb.Open(path, 1, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	return db
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dataDir := dataFlags(fs)
	limit := fs.Int("n", 20, "max rows (0: all)")
	_ = fs.Parse(args)

	db := openDB(*dataDir)
	defer db.Close()

	rows, err := db.ListSaves(context.Background(), *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(1)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSESSION\tTICK\tJOB\tLEVEL\tCREDITS\tENDING\tSAVED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%.8s\t%s\t%s\t%d\t%sc\t%s\t%s\n",
			r.ID, r.Session, humanize.Comma(int64(r.Tick)), r.Summary.Job, r.Summary.Level,
			humanize.Comma(int64(r.Summary.Credits)), r.Ending, humanize.Time(r.RecordedAt))
	}
	_ = tw.Flush()
}

func showCmd(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dataDir := dataFlags(fs)
	path := fs.String("file", "", "save file (default: <data>/<save.file>)")
	_ = fs.Parse(args)

	p := *path
	if p == "" {
		p = filepath.Join(*dataDir, tuning.Defaults().Save.File)
	}
	sv, err := snapshot.ReadSave(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	s := sv.Summary
	fmt.Printf("session  %s\n", sv.Header.SessionID)
	fmt.Printf("seed     %d\n", sv.Header.Seed)
	fmt.Printf("tick     %s\n", humanize.Comma(int64(sv.Header.Tick)))
	fmt.Printf("saved    %s\n", sv.Header.SavedAt)
	fmt.Printf("ending   %s\n", sv.Header.Ending)
	fmt.Printf("job      %s  level %d  xp %d\n", s.Job, s.Level, s.XP)
	fmt.Printf("pos      %d,%d\n", s.Pos[0], s.Pos[1])
	fmt.Printf("hp       %.0f  hunger %.0f  sleep %.0f\n", s.HP, s.Hunger, s.Sleep)
	fmt.Printf("credits  %sc  wanted %d\n", humanize.Comma(int64(s.Credits)), s.Wanted)
	fmt.Printf("psyche   fatigue %.0f  isolation %.0f  stability %.0f  anxiety %.0f\n",
		s.Emotions[0], s.Emotions[1], s.Emotions[2], s.Emotions[3])
}

func actionsCmd(args []string) {
	fs := flag.NewFlagSet("actions", flag.ExitOnError)
	dataDir := dataFlags(fs)
	sessionID := fs.String("session", "", "session id (required)")
	raw := fs.Bool("raw", false, "decode the JSONL action log instead of the index")
	_ = fs.Parse(args)
	if *sessionID == "" {
		fmt.Fprintln(os.Stderr, "missing -session")
		os.Exit(2)
	}

	if *raw {
		entries, err := persistlog.ReadActions(filepath.Join(*dataDir, tuning.Defaults().Save.LogDir), *sessionID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		for _, e := range entries {
			code := e.Code
			if code == "" {
				code = "ok"
			}
			fmt.Printf("%8d  %-9s %-10s %-20s %d,%d\n", e.Tick, e.Action, e.Args, code, e.Pos[0], e.Pos[1])
		}
		return
	}

	db := openDB(*dataDir)
	defer db.Close()
	codes, err := db.ActionCodes(context.Background(), *sessionID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	for _, c := range codes {
		code := c.Code
		if code == "" {
			code = "ok"
		}
		fmt.Printf("%-22s %s\n", code, humanize.Comma(int64(c.Count)))
	}
}

func catalogsCmd(args []string) {
	fs := flag.NewFlagSet("catalogs", flag.ExitOnError)
	dataDir := dataFlags(fs)
	_ = fs.Parse(args)

	db := openDB(*dataDir)
	defer db.Close()
	digests, err := db.CatalogDigests(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	for _, name := range []string{"items", "quests", "enemies", "lines", "tuning"} {
		if d, ok := digests[name]; ok {
			fmt.Printf("%-8s %s\n", name, d)
		}
	}
}
