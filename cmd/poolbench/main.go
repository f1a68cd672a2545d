// Command poolbench exercises the buffer pool core end to end: it opens a
// pool against a scratch file, drives a configurable number of
// new/unpin/fetch/flush cycles through it, and prints a one-line summary
// (page count, pool size, backing file path). It does not print the pool's
// hit/miss/eviction counts. It is a driver for this module, not a
// database: no query layer, no catalog, no CLI beyond its own flags.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"driftdb/buffer"
	"driftdb/common"
	"driftdb/disk"
	"driftdb/pageid"
	"driftdb/wal"
)

func main() {
	poolSize := flag.Int("pool-size", 32, "number of frames in the pool")
	pages := flag.Int("pages", 200, "number of pages to drive through the pool")
	dbFile := flag.String("db", "", "path to the backing file (default: a scratch file in the OS temp dir)")
	keepFile := flag.Bool("keep", false, "keep the backing file after exit instead of removing it")
	walFile := flag.String("wal", "", "path of a file handed to the pool as its snappy-compressing log handle; the pool never appends to it (default: none)")
	flag.Parse()

	path := *dbFile
	if path == "" {
		path = fmt.Sprintf("%s/poolbench-%s.db", os.TempDir(), uuid.NewString())
	}

	logger := common.NewLogger(true)
	defer logger.Sync()

	dm, err := disk.NewFileManager(path, logger)
	if err != nil {
		logger.Sugar().Fatalf("opening disk manager: %v", err)
	}
	if !*keepFile {
		defer os.Remove(path)
	}

	var log wal.LogManager
	if *walFile != "" {
		f, err := os.OpenFile(*walFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Sugar().Fatalf("opening wal file: %v", err)
		}
		defer f.Close()
		log = wal.NewSnappyLogManager(f)
	}

	metrics := buffer.NewMetrics()
	pool := buffer.New(*poolSize, dm, pageid.NewAllocator(1, 0), log, metrics, logger)
	defer pool.Close()

	ids := make([]pageid.ID, 0, *pages)
	for i := 0; i < *pages; i++ {
		id, fr, err := pool.NewPage()
		if err != nil {
			logger.Sugar().Fatalf("new page %d: %v", i, err)
		}
		fr.Data[0] = byte(i)
		pool.UnpinPage(id, true)
		ids = append(ids, id)
	}

	for _, id := range ids {
		if _, err := pool.FetchPage(id); err != nil {
			logger.Sugar().Fatalf("fetch page %d: %v", id, err)
		}
		pool.UnpinPage(id, false)
	}

	pool.FlushAllPages()

	fmt.Printf("drove %d pages through a %d-frame pool at %s\n", *pages, *poolSize, path)
}
