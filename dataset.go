package yoloedit

// Dataset enumeration and label/image persistence.

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExts are the image file extensions recognized during dataset
// enumeration, matching the registered decoders.
var imageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"tiff": true,
	"webp": true,
}

// ImagePair is one image/label pair in an open dataset. The label file may
// not exist yet for images that have no annotations.
type ImagePair struct {
	ImagePath string
	LabelPath string
}

// DatasetIndex enumerates the image/label pairs of one open dataset, loads
// and saves label text on behalf of an EditSession and caches decoded images.
type DatasetIndex struct {
	pairs   []ImagePair
	session *EditSession
	config  *Config
	images  *BoundedCache[int, image.Image]
}

// OpenDataset scans imageDir for images, pairs each with a label file of the
// same base name in labelDir and returns an index backed by session. The
// pairs are ordered by image file name.
func OpenDataset(imageDir, labelDir string, session *EditSession, config *Config) (*DatasetIndex, error) {
	if config == nil {
		config = DefaultConfig()
	}
	_ = config.Validate()

	dirInfo, err := os.Stat(labelDir)
	if err != nil || !dirInfo.IsDir() {
		return nil, fmt.Errorf("cannot access label directory %q: %v", labelDir, err)
	}

	imageFiles, err := filesByExtInDir(imageDir, "")
	if err != nil {
		return nil, err
	}
	sort.Strings(imageFiles)

	pairs := make([]ImagePair, 0, len(imageFiles))
	for _, path := range imageFiles {
		_, baseNoExt, ext, err := splitPath(path)
		if err != nil || !imageExts[strings.ToLower(ext)] {
			continue
		}
		pairs = append(pairs, ImagePair{
			ImagePath: path,
			LabelPath: filepath.Join(labelDir, baseNoExt+config.LabelExt),
		})
	}
	log.Printf("Opened dataset with %d images", len(pairs))

	cache, err := NewBoundedCache[int, image.Image](config.CacheCapacity, nil)
	if err != nil {
		return nil, err
	}

	return &DatasetIndex{pairs: pairs, session: session, config: config, images: cache}, nil
}

// Len returns the number of image/label pairs.
func (d *DatasetIndex) Len() int {
	return len(d.pairs)
}

// Pair returns the image/label pair at index.
func (d *DatasetIndex) Pair(index int) (ImagePair, error) {
	if index < 0 || index >= len(d.pairs) {
		return ImagePair{}, fmt.Errorf("image index %d out of range [0, %d)", index, len(d.pairs))
	}
	return d.pairs[index], nil
}

// Session returns the edit session backing this dataset.
func (d *DatasetIndex) Session() *EditSession {
	return d.session
}

// LoadBoxes reads and parses the label file for the image at index, hands the
// collection to the session and makes the image current. An image whose state
// is already initialized keeps its in-progress edits. A missing label file
// yields an empty collection.
func (d *DatasetIndex) LoadBoxes(index int) ([]Box, error) {
	pair, err := d.Pair(index)
	if err != nil {
		return nil, err
	}

	if !d.session.HasImageState(index) {
		var boxes []Box
		data, err := os.ReadFile(pair.LabelPath)
		switch {
		case os.IsNotExist(err):
			// Unannotated image; start from an empty collection.
		case err != nil:
			return nil, fmt.Errorf("cannot read label file %q: %v", pair.LabelPath, err)
		default:
			var skipped int
			boxes, skipped = ParseLabels(string(data))
			if skipped > 0 {
				log.Printf("Skipped %d invalid lines in %q", skipped, pair.LabelPath)
			}
		}
		d.session.InitImageState(index, boxes)
	} else {
		d.session.SetCurrentIndex(index)
	}

	return d.session.CurrentBoxes(), nil
}

// SaveBoxes serializes the live boxes of the image at index, writes them to
// its label file and commits the saved baseline to the session. The current
// image pointer is unchanged afterwards. Images without session state are
// not written.
func (d *DatasetIndex) SaveBoxes(index int) error {
	pair, err := d.Pair(index)
	if err != nil {
		return err
	}
	if !d.session.HasImageState(index) {
		return fmt.Errorf("no edit state for image %d", index)
	}

	prev := d.session.CurrentIndex()
	d.session.SetCurrentIndex(index)
	boxes := d.session.BoxesForSave()
	d.session.SetCurrentIndex(prev)

	if d.config.BackupOnSave {
		if err := backupFile(pair.LabelPath); err != nil {
			return err
		}
	}
	text := SerializeLabels(boxes)
	if err := os.WriteFile(pair.LabelPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("cannot write label file %q: %v", pair.LabelPath, err)
	}

	d.session.MarkSavedAt(index)
	return nil
}

// SaveAllModified writes every image with unsaved edits back to its label
// file and returns the number of files written. The current image pointer is
// unchanged afterwards.
func (d *DatasetIndex) SaveAllModified() (int, error) {
	saved := 0
	for _, index := range d.session.ModifiedIndexes() {
		if err := d.SaveBoxes(index); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// backupFile renames an existing file to a .bak sibling, replacing any
// previous backup. Missing files need no backup.
func backupFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(path, path+".bak"); err != nil {
		return fmt.Errorf("cannot back up %q: %v", path, err)
	}
	return nil
}

// Image returns the decoded image at index, served from the cache when
// possible.
func (d *DatasetIndex) Image(index int) (image.Image, error) {
	pair, err := d.Pair(index)
	if err != nil {
		return nil, err
	}

	if img, ok := d.images.Get(index); ok {
		return img, nil
	}
	img, err := loadImage(pair.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("cannot decode image %q: %v", pair.ImagePath, err)
	}
	d.images.Set(index, img)

	return img, nil
}

// ImageSize returns the pixel dimensions of the image at index without
// decoding the full bitmap.
func (d *DatasetIndex) ImageSize(index int) (width, height int, err error) {
	pair, err := d.Pair(index)
	if err != nil {
		return 0, 0, err
	}

	config, _, err := decodeImageConfig(pair.ImagePath)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot read image dimensions of %q: %v", pair.ImagePath, err)
	}
	return config.Width, config.Height, nil
}

// Thumbnail returns the image at index resampled to fit within
// maxWidth x maxHeight, preserving the aspect ratio.
func (d *DatasetIndex) Thumbnail(index, maxWidth, maxHeight int) (image.Image, error) {
	img, err := d.Image(index)
	if err != nil {
		return nil, err
	}
	return fitPreview(img, maxWidth, maxHeight), nil
}

// Prefetch decodes the neighbors of index into the image cache in the
// background. Failures are logged and never surface; session state is not
// touched.
func (d *DatasetIndex) Prefetch(index int) {
	for _, i := range []int{index - 1, index + 1} {
		if i < 0 || i >= len(d.pairs) || d.images.Contains(i) {
			continue
		}
		go func(i int) {
			if _, err := d.Image(i); err != nil {
				log.Printf("Prefetch failed for %q: %v", d.pairs[i].ImagePath, err)
			}
		}(i)
	}
}

// Close releases the cached images.
func (d *DatasetIndex) Close() {
	d.images.Clear()
}
