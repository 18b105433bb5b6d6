// Batch operations on YOLO bounding-box datasets: validation, statistics,
// label rewriting and bulk class deletion.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	yoloedit "github.com/EthanCui2008/Yolo-Dataset-Modifier"
)

var (
	imageDirPath string // The directory with the dataset images.
	labelDirPath string // The directory with the YOLO label files.
	configPath   string // Optional JSON config file.

	opValidate    bool // Parse all label files and report invalid lines.
	opStats       bool // Report dataset totals and the per-class histogram.
	opRewrite     bool // Re-serialize all label files with normalized formatting.
	opDeleteClass int  // Delete all boxes of this class (-1 disables).

	backupOnSave bool // Keep a .bak of each label file before writing.
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  required:\t-images <dir> -labels <dir>")
		_, _ = fmt.Fprintln(os.Stderr, "  operations:\t-validate | -stats | -rewrite | -delete-class <id>")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	flag.StringVar(&imageDirPath, "images", imageDirPath,
		"The `path` to the image directory")
	flag.StringVar(&labelDirPath, "labels", labelDirPath,
		"The `path` to the label directory")
	flag.StringVar(&configPath, "config", configPath,
		"The `path` to an optional JSON config file")

	flag.BoolVar(&opValidate, "validate", false,
		"Parse every label file and report invalid lines")
	flag.BoolVar(&opStats, "stats", false,
		"Report box totals and the per-class histogram")
	flag.BoolVar(&opRewrite, "rewrite", false,
		"Rewrite every label file with normalized formatting")
	flag.IntVar(&opDeleteClass, "delete-class", -1,
		"Delete every box with this class `id` and save the affected files")

	flag.BoolVar(&backupOnSave, "backup", false,
		"Keep a .bak copy of each label file before overwriting it")

	flag.Parse()

	if imageDirPath == "" || labelDirPath == "" {
		printUsageAndExit("Missing image or label directory argument")
	}

	numOps := 0
	for _, op := range []bool{opValidate, opStats, opRewrite, opDeleteClass >= 0} {
		if op {
			numOps++
		}
	}
	if numOps != 1 {
		printUsageAndExit("Exactly one operation must be selected")
	}

	imageDirPath = filepath.Clean(imageDirPath)
	labelDirPath = filepath.Clean(labelDirPath)
}

func main() {
	config, err := yoloedit.LoadConfig(configPath)
	if err != nil {
		log.Fatal("Failed to load the config: ", err)
	}
	if backupOnSave {
		config.BackupOnSave = true
	}

	session := yoloedit.NewEditSession()
	dataset, err := yoloedit.OpenDataset(imageDirPath, labelDirPath, session, config)
	if err != nil {
		log.Fatal("Failed to open the dataset: ", err)
	}
	defer dataset.Close()

	switch {
	case opValidate:
		err = validate(dataset)
	case opStats:
		err = stats(dataset)
	case opRewrite:
		err = rewrite(dataset)
	case opDeleteClass >= 0:
		err = deleteClass(dataset, opDeleteClass)
	}
	if err != nil {
		log.Fatal("Operation failed: ", err)
	}
}

// validate parses every label file and reports files containing lines that do
// not form a valid box.
func validate(dataset *yoloedit.DatasetIndex) error {
	totalBoxes, totalSkipped, badFiles := 0, 0, 0
	for i := 0; i < dataset.Len(); i++ {
		pair, err := dataset.Pair(i)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(pair.LabelPath)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return err
		}

		boxes, skipped := yoloedit.ParseLabels(string(data))
		totalBoxes += len(boxes)
		totalSkipped += skipped
		if skipped > 0 {
			badFiles++
			log.Printf("%s: %d valid, %d invalid lines", pair.LabelPath, len(boxes), skipped)
		}
	}

	log.Printf("Validated %d files: %d boxes, %d invalid lines in %d files",
		dataset.Len(), totalBoxes, totalSkipped, badFiles)
	return nil
}

// stats reports the number of annotated files, the box total and the
// per-class box counts.
func stats(dataset *yoloedit.DatasetIndex) error {
	classCounts := make(map[int]int)
	annotated, totalBoxes := 0, 0
	for i := 0; i < dataset.Len(); i++ {
		boxes, err := dataset.LoadBoxes(i)
		if err != nil {
			return err
		}
		if len(boxes) > 0 {
			annotated++
		}
		for _, b := range boxes {
			classCounts[b.ClassID]++
			totalBoxes++
		}
	}

	log.Printf("%d images, %d annotated, %d boxes", dataset.Len(), annotated, totalBoxes)
	for class, count := range classCounts {
		log.Printf("  class %d: %d boxes", class, count)
	}
	return nil
}

// rewrite loads and re-saves every annotated label file, normalizing token
// spacing and the decimal formatting.
func rewrite(dataset *yoloedit.DatasetIndex) error {
	written := 0
	for i := 0; i < dataset.Len(); i++ {
		boxes, err := dataset.LoadBoxes(i)
		if err != nil {
			return err
		}
		if len(boxes) == 0 {
			continue
		}
		if err := dataset.SaveBoxes(i); err != nil {
			return err
		}
		written++
	}

	log.Printf("Rewrote %d label files", written)
	return nil
}

// deleteClass removes every box of the given class across the dataset through
// the edit session and saves the modified files.
func deleteClass(dataset *yoloedit.DatasetIndex, classID int) error {
	session := dataset.Session()
	deleted := 0
	for i := 0; i < dataset.Len(); i++ {
		boxes, err := dataset.LoadBoxes(i)
		if err != nil {
			return err
		}
		for _, b := range boxes {
			if b.ClassID == classID && !b.Deleted {
				session.ToggleBoxSelection(b.ID)
			}
		}
		deleted += session.DeleteSelected()
	}

	saved, err := dataset.SaveAllModified()
	if err != nil {
		return err
	}
	log.Printf("Deleted %d boxes of class %d across %d files", deleted, classID, saved)
	return nil
}
