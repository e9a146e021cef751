// Package model defines the core data structures shared by the
// studio-images packages.
//
// # Studio
//
// Studio is a record of the studios table. It is read from the store and,
// depending on the persist mode, its ImageURL is rewritten to the new
// filename:
//
//	if studio.IsProcessed("pilates-") {
//	    // already migrated by a previous run
//	}
//
// # DownloadTask
//
// DownloadTask carries everything needed to fetch one image:
//
//	task := model.NewDownloadTask(studio, baseName, ".jpg", layout.OriginalDir())
//	fmt.Println(task.Path) // where the original will be written
//
// # RunStats
//
// RunStats accumulates the counters of one run and is returned by the
// download manager when the run ends.
package model
