package yoloedit

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestDataset creates image and label directories with n small images
// named img00.png, img01.png, ... and returns their paths.
func writeTestDataset(t *testing.T, n int) (imageDir, labelDir string) {
	t.Helper()
	imageDir = t.TempDir()
	labelDir = t.TempDir()

	for i := 0; i < n; i++ {
		path := filepath.Join(imageDir, testImageName(i))
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("create %q: %v", path, err)
		}
		if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
			t.Fatalf("encode %q: %v", path, err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("close %q: %v", path, err)
		}
	}
	return imageDir, labelDir
}

func testImageName(i int) string {
	return "img" + string(rune('0'+i/10)) + string(rune('0'+i%10)) + ".png"
}

func writeLabelFile(t *testing.T, labelDir string, i int, content string) string {
	t.Helper()
	path := filepath.Join(labelDir, "img"+string(rune('0'+i/10))+string(rune('0'+i%10))+".txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
	return path
}

func TestOpenDataset_PairsImagesWithLabels(t *testing.T) {
	imageDir, labelDir := writeTestDataset(t, 3)

	// Non-image files in the image directory are ignored.
	if err := os.WriteFile(filepath.Join(imageDir, "notes.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	dataset, err := OpenDataset(imageDir, labelDir, NewEditSession(), nil)
	if err != nil {
		t.Fatalf("OpenDataset: %v", err)
	}
	defer dataset.Close()

	if dataset.Len() != 3 {
		t.Fatalf("Len = %d, want 3", dataset.Len())
	}
	pair, err := dataset.Pair(1)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if filepath.Base(pair.ImagePath) != "img01.png" {
		t.Fatalf("pairs not ordered by name: %q", pair.ImagePath)
	}
	if filepath.Base(pair.LabelPath) != "img01.txt" {
		t.Fatalf("label path %q does not match the image base name", pair.LabelPath)
	}

	if _, err := dataset.Pair(3); err == nil {
		t.Fatal("expected an error for an out-of-range index")
	}
}

func TestOpenDataset_MissingDirectories(t *testing.T) {
	dir := t.TempDir()
	if _, err := OpenDataset(filepath.Join(dir, "absent"), dir, NewEditSession(), nil); err == nil {
		t.Fatal("expected an error for a missing image directory")
	}
	if _, err := OpenDataset(dir, filepath.Join(dir, "absent"), NewEditSession(), nil); err == nil {
		t.Fatal("expected an error for a missing label directory")
	}
}

func TestDataset_LoadBoxes(t *testing.T) {
	imageDir, labelDir := writeTestDataset(t, 2)
	writeLabelFile(t, labelDir, 0, "0 0.5 0.5 0.2 0.4\nbad line\n2 0.1 0.1 0.05 0.05")

	session := NewEditSession()
	dataset, err := OpenDataset(imageDir, labelDir, session, nil)
	if err != nil {
		t.Fatalf("OpenDataset: %v", err)
	}
	defer dataset.Close()

	boxes, err := dataset.LoadBoxes(0)
	if err != nil {
		t.Fatalf("LoadBoxes: %v", err)
	}
	if len(boxes) != 2 {
		t.Fatalf("loaded %d boxes, want 2 (invalid line skipped)", len(boxes))
	}
	if session.CurrentIndex() != 0 {
		t.Fatalf("current index = %d, want 0", session.CurrentIndex())
	}

	// An image without a label file starts empty.
	boxes, err = dataset.LoadBoxes(1)
	if err != nil {
		t.Fatalf("LoadBoxes without label file: %v", err)
	}
	if len(boxes) != 0 {
		t.Fatalf("expected an empty collection, got %d boxes", len(boxes))
	}

	// Reloading image 0 keeps the in-progress edits.
	session.SetCurrentIndex(0)
	session.SelectAll()
	session.DeleteSelected()
	boxes, err = dataset.LoadBoxes(0)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(LiveBoxes(boxes)) != 0 {
		t.Fatal("reload overwrote in-progress edits")
	}
}

func TestDataset_SaveBoxes(t *testing.T) {
	imageDir, labelDir := writeTestDataset(t, 2)
	path := writeLabelFile(t, labelDir, 0, "0 0.5 0.5 0.2 0.4\n2 0.1 0.1 0.05 0.05")

	session := NewEditSession()
	dataset, err := OpenDataset(imageDir, labelDir, session, nil)
	if err != nil {
		t.Fatalf("OpenDataset: %v", err)
	}
	defer dataset.Close()

	if err := dataset.SaveBoxes(0); err == nil {
		t.Fatal("expected an error saving an image without edit state")
	}

	boxes, err := dataset.LoadBoxes(0)
	if err != nil {
		t.Fatalf("LoadBoxes: %v", err)
	}
	session.SelectBox(boxes[0].ID)
	session.DeleteSelected()

	if err := dataset.SaveBoxes(0); err != nil {
		t.Fatalf("SaveBoxes: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "2 0.100000 0.100000 0.050000 0.050000"
	if string(data) != want {
		t.Fatalf("label file = %q, want %q", string(data), want)
	}
	if session.IsModified(0) {
		t.Fatal("image still modified after save")
	}
	if session.DeletedCount() != 0 {
		t.Fatal("saved baseline still holds tombstoned boxes")
	}
}

func TestDataset_SaveAllModifiedPreservesCurrent(t *testing.T) {
	imageDir, labelDir := writeTestDataset(t, 3)
	writeLabelFile(t, labelDir, 0, "0 0.5 0.5 0.2 0.2")
	writeLabelFile(t, labelDir, 1, "1 0.5 0.5 0.2 0.2")

	session := NewEditSession()
	dataset, err := OpenDataset(imageDir, labelDir, session, nil)
	if err != nil {
		t.Fatalf("OpenDataset: %v", err)
	}
	defer dataset.Close()

	for i := 0; i < 2; i++ {
		if _, err := dataset.LoadBoxes(i); err != nil {
			t.Fatalf("LoadBoxes(%d): %v", i, err)
		}
		session.SelectAll()
		session.DeleteSelected()
	}
	if _, err := dataset.LoadBoxes(2); err != nil {
		t.Fatalf("LoadBoxes(2): %v", err)
	}

	saved, err := dataset.SaveAllModified()
	if err != nil {
		t.Fatalf("SaveAllModified: %v", err)
	}
	if saved != 2 {
		t.Fatalf("saved %d files, want 2", saved)
	}
	if session.CurrentIndex() != 2 {
		t.Fatalf("batch save moved the current index to %d", session.CurrentIndex())
	}
	if session.HasUnsavedChanges() {
		t.Fatal("unsaved changes remain after SaveAllModified")
	}

	for i := 0; i < 2; i++ {
		data, err := os.ReadFile(filepath.Join(labelDir, testImageName(i)[:5]+".txt"))
		if err != nil {
			t.Fatalf("read back %d: %v", i, err)
		}
		if string(data) != "" {
			t.Fatalf("file %d = %q, want empty after deleting all boxes", i, string(data))
		}
	}
}

func TestDataset_BackupOnSave(t *testing.T) {
	imageDir, labelDir := writeTestDataset(t, 1)
	original := "0 0.500000 0.500000 0.200000 0.200000"
	path := writeLabelFile(t, labelDir, 0, original)

	config := DefaultConfig()
	config.BackupOnSave = true
	session := NewEditSession()
	dataset, err := OpenDataset(imageDir, labelDir, session, config)
	if err != nil {
		t.Fatalf("OpenDataset: %v", err)
	}
	defer dataset.Close()

	if _, err := dataset.LoadBoxes(0); err != nil {
		t.Fatalf("LoadBoxes: %v", err)
	}
	session.SelectAll()
	session.DeleteSelected()
	if err := dataset.SaveBoxes(0); err != nil {
		t.Fatalf("SaveBoxes: %v", err)
	}

	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(backup) != original {
		t.Fatalf("backup = %q, want the pre-save content %q", string(backup), original)
	}
}

func TestDataset_ImageAccess(t *testing.T) {
	imageDir, labelDir := writeTestDataset(t, 1)

	dataset, err := OpenDataset(imageDir, labelDir, NewEditSession(), nil)
	if err != nil {
		t.Fatalf("OpenDataset: %v", err)
	}
	defer dataset.Close()

	w, h, err := dataset.ImageSize(0)
	if err != nil {
		t.Fatalf("ImageSize: %v", err)
	}
	if w != 8 || h != 4 {
		t.Fatalf("ImageSize = %dx%d, want 8x4", w, h)
	}

	img, err := dataset.Image(0)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Fatalf("decoded bounds = %v", img.Bounds())
	}

	thumb, err := dataset.Thumbnail(0, 4, 4)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() > 4 || thumb.Bounds().Dy() > 4 {
		t.Fatalf("thumbnail bounds %v exceed 4x4", thumb.Bounds())
	}

	if _, err := dataset.Image(5); err == nil {
		t.Fatal("expected an error for an out-of-range index")
	}
}
