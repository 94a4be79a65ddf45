package services

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"curio/internal/models"
	"curio/internal/ordering"
	"curio/internal/repositories"

	"curio/pkg/filestore"
	"curio/pkg/imaging"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// pendingPrefix tags not-yet-persisted images in a composite update's order
// list. Clients reference the i-th new file as "new-i".
const pendingPrefix = "new-"

// MemberRef identifies one member of an image order list: either an image
// that already exists, or one of the files uploaded in the same request,
// by its position in the upload list.
type MemberRef struct {
	ID      string // persisted image id, when Pending is false
	Index   int    // index into the request's new-file list, when Pending is true
	Pending bool
}

// ParseMemberRef parses a wire order entry: "new-3" is the fourth uploaded
// file, anything else is an existing image id.
func ParseMemberRef(s string) (MemberRef, error) {
	if !strings.HasPrefix(s, pendingPrefix) {
		return MemberRef{ID: s}, nil
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(s, pendingPrefix))
	if err != nil || idx < 0 {
		return MemberRef{}, validationf("malformed temporary image reference %q", s)
	}
	return MemberRef{Index: idx, Pending: true}, nil
}

func (r MemberRef) key() string {
	if r.Pending {
		return pendingPrefix + strconv.Itoa(r.Index)
	}
	return r.ID
}

// ImageSetUpdate is the composite mutation over one item's image set:
// delete a subset, insert new files, and reorder the union of survivors and
// new images in one transaction.
type ImageSetUpdate struct {
	DeleteIDs []string
	NewFiles  []imaging.File
	Order     []MemberRef
}

// ImageService handles image uploads, deletion, and the composite image-set
// update.
type ImageService struct {
	store     repositories.Store
	files     filestore.Store
	processor *imaging.Processor
}

// NewImageService creates a new ImageService.
func NewImageService(store repositories.Store, files filestore.Store, processor *imaging.Processor) *ImageService {
	return &ImageService{store: store, files: files, processor: processor}
}

// List retrieves all images of an owned item in display order.
func (s *ImageService) List(userID, itemID string) ([]models.ItemImage, error) {
	if _, err := s.store.Items().GetOwned(userID, itemID); err != nil {
		return nil, err
	}
	return s.store.Images().ListByItem(itemID)
}

// Upload validates, stores, and records a batch of new images for an item,
// appending them at the next free order slots.
func (s *ImageService) Upload(userID, itemID string, files []imaging.File) ([]models.ItemImage, error) {
	if _, err := s.store.Items().GetOwned(userID, itemID); err != nil {
		return nil, err
	}
	processed, err := s.processor.ProcessAll(files)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrValidation)
	}

	urls, err := s.saveFiles(processed)
	if err != nil {
		return nil, err
	}

	err = s.store.InTransaction(func(tx repositories.Store) error {
		images, err := tx.Images().ListByItem(itemID)
		if err != nil {
			return err
		}
		next := len(images)
		for i, url := range urls {
			image := &models.ItemImage{ImageURL: url, ItemID: itemID, ImageOrder: next + i}
			if err := tx.Images().Create(image); err != nil {
				return err
			}
		}
		return tx.Items().Touch(itemID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return s.store.Images().ListByItem(itemID)
}

// Delete removes one image record and renumbers the item's surviving images.
// The stored file is removed after commit, best-effort.
func (s *ImageService) Delete(userID, imageID string) error {
	image, err := s.store.Images().GetOwned(userID, imageID)
	if err != nil {
		return err
	}

	err = s.store.InTransaction(func(tx repositories.Store) error {
		if err := tx.Images().Delete(imageID); err != nil {
			return err
		}
		if err := compactImageOrders(tx, image.ItemID); err != nil {
			return err
		}
		return tx.Items().Touch(image.ItemID, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	if err := s.files.Remove(image.ImageURL); err != nil {
		log.Printf("Failed to remove stored file %s: %v", image.ImageURL, err)
	}
	return nil
}

// UpdateSet applies the composite delete+insert+reorder mutation. Every
// validation runs before the transaction opens: delete ids must all belong
// to the item, new files must pass type/size checks, and the order list must
// cover exactly the union of surviving and new images. The record mutation
// is all-or-nothing; files written before a storage failure are acceptable
// orphans, and deleted files are only removed from disk after commit.
func (s *ImageService) UpdateSet(userID, itemID string, update ImageSetUpdate) ([]models.ItemImage, error) {
	if _, err := s.store.Items().GetOwned(userID, itemID); err != nil {
		return nil, err
	}
	current, err := s.store.Images().ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	currentByID := make(map[string]models.ItemImage, len(current))
	for _, img := range current {
		currentByID[img.ID] = img
	}

	// Delete phase validation: an id that is missing or belongs to someone
	// else rejects the whole operation before anything is written.
	deleted := make(map[string]bool, len(update.DeleteIDs))
	var deletedURLs []string
	for _, id := range update.DeleteIDs {
		img, ok := currentByID[id]
		if !ok {
			return nil, fmt.Errorf("image %s not found in item: %w", id, ErrNotFound)
		}
		if deleted[id] {
			return nil, validationf("image %s listed for deletion twice", id)
		}
		deleted[id] = true
		deletedURLs = append(deletedURLs, img.ImageURL)
	}

	processed, err := s.processor.ProcessAll(update.NewFiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrValidation)
	}

	// Reorder phase validation over synthetic keys: survivors keep their
	// ids, pending files appear as "new-i". The reconciler enforces the
	// exact-union property, so an order entry naming a just-deleted image
	// or a foreign id rejects the whole operation.
	expected := make([]string, 0, len(current)-len(deleted)+len(processed))
	for _, img := range current {
		if !deleted[img.ID] {
			expected = append(expected, img.ID)
		}
	}
	for i := range processed {
		expected = append(expected, pendingPrefix+strconv.Itoa(i))
	}
	proposed := make([]string, len(update.Order))
	for i, ref := range update.Order {
		if ref.Pending && ref.Index >= len(processed) {
			return nil, validationf("unknown temporary image reference %s", ref.key())
		}
		proposed[i] = ref.key()
	}
	orders, err := ordering.Assign(expected, proposed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrValidation)
	}

	urls, err := s.saveFiles(processed)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.store.InTransaction(func(tx repositories.Store) error {
		if err := tx.Images().DeleteByIDs(update.DeleteIDs); err != nil {
			return err
		}

		// Insert phase mints real ids; pending keys resolve to them.
		minted := make(map[string]string, len(urls))
		for i, url := range urls {
			image := &models.ItemImage{ImageURL: url, ItemID: itemID}
			if err := tx.Images().Create(image); err != nil {
				return err
			}
			minted[pendingPrefix+strconv.Itoa(i)] = image.ID
		}

		resolved := make(map[string]int, len(orders))
		for key, order := range orders {
			if id, ok := minted[key]; ok {
				key = id
			}
			resolved[key] = order
		}
		if err := tx.Images().UpdateOrders(resolved, now); err != nil {
			return err
		}
		return tx.Items().Touch(itemID, now)
	})
	if err != nil {
		return nil, err
	}

	for _, url := range deletedURLs {
		if err := s.files.Remove(url); err != nil {
			log.Printf("Failed to remove stored file %s: %v", url, err)
		}
	}
	return s.store.Images().ListByItem(itemID)
}

// saveFiles writes processed uploads to the file store under generated
// unique names and returns their public URLs.
func (s *ImageService) saveFiles(processed []imaging.Processed) ([]string, error) {
	urls := make([]string, 0, len(processed))
	for _, p := range processed {
		name, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate filename: %w", err)
		}
		url, err := s.files.Save(name+filepath.Ext(p.Filename), p.Data)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
